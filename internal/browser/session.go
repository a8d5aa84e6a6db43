// Owns the single long-lived browser context. The context is backed by a
// persistent user-data directory, so cookies and login state survive both
// requests and process restarts.

package browser

import (
	"fmt"
	"log"
	"sync"

	"github.com/playwright-community/playwright-go"
)

const desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// launch flags that suppress the usual automation tells
var stealthArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-blink-features=AutomationControlled",
	"--disable-infobars",
	"--window-position=0,0",
	"--ignore-certificate-errors",
	"--ignore-certificate-errors-spki-list",
}

// SessionManager hands out the process-wide persistent context, creating it
// lazily and relaunching it after the browser process dies. The mutex only
// guards acquire/recover; page operations on the shared context are
// intentionally unguarded (one in-flight batch at a time is assumed).
type SessionManager struct {
	mu          sync.Mutex
	userDataDir string
	pw          *playwright.Playwright
	ctx         playwright.BrowserContext
}

func NewSessionManager(userDataDir string) *SessionManager {
	return &SessionManager{userDataDir: userDataDir}
}

// Context returns the shared persistent context, launching a fresh one when
// none exists or the cached handle no longer responds.
func (sm *SessionManager) Context(headless bool) (playwright.BrowserContext, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.ctx != nil && !sm.alive() {
		log.Println("⚠️ Browser context no longer responding. Relaunching...")
		sm.ctx = nil
	}

	if sm.ctx == nil {
		if err := sm.launch(headless); err != nil {
			return nil, err
		}
	}
	return sm.ctx, nil
}

// alive probes the cached context by listing its pages.
func (sm *SessionManager) alive() bool {
	if b := sm.ctx.Browser(); b != nil && !b.IsConnected() {
		return false
	}
	return sm.ctx.Pages() != nil
}

func (sm *SessionManager) launch(headless bool) error {
	if sm.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return fmt.Errorf("could not start playwright: %w", err)
		}
		sm.pw = pw
	}

	ctx, err := sm.pw.Chromium.LaunchPersistentContext(sm.userDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(headless),
		Viewport:          &playwright.Size{Width: 1280, Height: 800},
		UserAgent:         playwright.String(desktopUserAgent),
		Args:              stealthArgs,
		IgnoreDefaultArgs: []string{"--enable-automation"},
	})
	if err != nil {
		return fmt.Errorf("could not launch persistent context: %w", err)
	}

	// Drop the cached handle when the browser goes away so the next request
	// relaunches instead of failing against a dead connection.
	ctx.OnClose(func(playwright.BrowserContext) {
		sm.dropContext(ctx)
	})

	sm.ctx = ctx
	log.Printf("✅ Persistent browser context launched (profile: %s)", sm.userDataDir)
	return nil
}

// dropContext clears the cached handle if it still points at ctx. Must never
// block the caller: the close event is delivered inline on playwright's
// connection-dispatch goroutine, and that same goroutine also delivers the
// reply that resolves a pending Close() holding sm.mu. Taking the mutex
// inline there would deadlock the shutdown path.
func (sm *SessionManager) dropContext(ctx playwright.BrowserContext) {
	go func() {
		sm.mu.Lock()
		if sm.ctx == ctx {
			sm.ctx = nil
		}
		sm.mu.Unlock()
		log.Println("ℹ️ Browser context closed.")
	}()
}

// Close tears down the context and the playwright driver. Used by the clean
// shutdown path so the OS-level browser process is not leaked.
func (sm *SessionManager) Close() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.ctx != nil {
		if err := sm.ctx.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser context: %v", err)
		}
		sm.ctx = nil
	}
	if sm.pw != nil {
		if err := sm.pw.Stop(); err != nil {
			return fmt.Errorf("could not stop playwright: %w", err)
		}
		sm.pw = nil
	}
	return nil
}
