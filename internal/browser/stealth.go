package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// ScrollToBottom jumps to the bottom of the page to trigger lazy loading
func ScrollToBottom(page playwright.Page) {
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
}

// SmoothScroll simulates human scrolling behavior before reading a page
func SmoothScroll(page playwright.Page) {
	page.Mouse().Wheel(0, 500)
	RandomDelay(500, 1000)

	// Scroll up a tiny bit (human-like correction)
	page.Mouse().Wheel(0, -200)
	RandomDelay(500, 800)

	ScrollToBottom(page)
}
