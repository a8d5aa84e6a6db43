// Per-site login flow, including the human CAPTCHA hand-off. Everything here
// is best-effort: failures become stream log events, never returned errors,
// so a broken login cannot take the rest of the batch down with it.

package auth

import (
	"fmt"
	"strings"
	"time"

	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"

	"github.com/playwright-community/playwright-go"
)

const (
	captchaPollAttempts = 60
	captchaPollInterval = time.Second
)

// Finds and clicks an interstitial "continue to login" control when the
// credential form is not yet on the page. Returns whether it clicked.
const gatewayJS = `() => {
	const btns = Array.from(document.querySelectorAll('a, button'));
	const btn = btns.find(b => {
		const href = b.getAttribute('href') || '';
		const text = b.innerText || '';
		return href.includes('/auth/redirect') || text.includes('ログインする');
	});
	if (btn && !document.querySelector('input[name="email"]')) {
		btn.click();
		return true;
	}
	return false;
}`

// Locates a CAPTCHA image: the site's known locator first, then any image
// whose source or alt text mentions captcha.
const captchaProbeJS = `() => {
	const known = document.querySelector('img[src*="siteguard_captcha_img"]');
	if (known) return known.src;
	const imgs = Array.from(document.querySelectorAll('img'));
	const captcha = imgs.find(img => (img.src || '').includes('captcha') || (img.alt || '').includes('CAPTCHA'));
	return captcha ? captcha.src : null;
}`

type Controller struct {
	mailbox *CaptchaMailbox
}

func NewController(mailbox *CaptchaMailbox) *Controller {
	return &Controller{mailbox: mailbox}
}

// Mailbox exposes the answer slot for the input endpoint.
func (c *Controller) Mailbox() *CaptchaMailbox {
	return c.mailbox
}

// Login drives the site's credential form on the given page. Navigation
// failures are swallowed; login proceeds against whatever page loaded.
func (c *Controller) Login(page playwright.Page, site *sites.Site, creds models.Credentials, emit stream.EmitFunc) {
	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s: 自動ログインを実行中...", site.Key)))

	page.Goto(site.LoginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(30000),
	})

	if site.Key == "jobmiru" {
		clicked, _ := page.Evaluate(gatewayJS)
		if clicked == true {
			emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s: ゲートウェイボタンをクリックしました。リダイレクトを待機します...", site.Key)))
			page.WaitForTimeout(3000)
		}
	}

	userField := page.Locator(site.Login.User).First()
	visible, _ := userField.IsVisible()
	if !visible {
		emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s: 既にログイン済み、またはフォームが見つかりませんのでログイン行程をスキップします。", site.Key)))
		return
	}

	if err := c.fillCredentials(page, site, creds); err != nil {
		emit(stream.Log(stream.LevelWarning, fmt.Sprintf("%s ログインエラー: %v", site.Key, err)))
		return
	}

	c.handleCaptcha(page, site, emit)

	page.Locator(site.Login.Button).First().Click()
	page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(30000),
	})

	c.classifyOutcome(page, site, emit)
}

// fillCredentials clears each field with an explicit select-all-then-delete
// before filling. Plain value assignment loses to browser autofill here.
func (c *Controller) fillCredentials(page playwright.Page, site *sites.Site, creds models.Credentials) error {
	clearAndFill := func(selector, value string) error {
		field := page.Locator(selector).First()
		if err := field.Click(); err != nil {
			return fmt.Errorf("could not focus %s: %w", selector, err)
		}
		page.Keyboard().Press("Meta+A")    // mac shortcut
		page.Keyboard().Press("Control+A") // windows/linux shortcut
		page.Keyboard().Press("Backspace")
		if err := field.Fill(value); err != nil {
			return fmt.Errorf("could not fill %s: %w", selector, err)
		}
		return nil
	}

	if err := clearAndFill(site.Login.User, creds.Username()); err != nil {
		return err
	}
	return clearAndFill(site.Login.Pass, creds.Secret())
}

// handleCaptcha probes for a challenge image and, when one is present, parks
// the flow on the mailbox until a human supplies an answer or the wait times
// out. A timeout lets submission proceed without a value; the site will then
// reject it and the outcome classification reports the failure.
func (c *Controller) handleCaptcha(page playwright.Page, site *sites.Site, emit stream.EmitFunc) {
	result, err := page.Evaluate(captchaProbeJS)
	if err != nil {
		return
	}
	image, ok := result.(string)
	if !ok || image == "" {
		return
	}

	emit(stream.Log(stream.LevelWarning, fmt.Sprintf("%s: 画像認証（ひらがな4文字）を検出しました。", site.Key)))
	emit(stream.CaptchaRequired(site.Key, image))

	c.mailbox.Clear()
	answer := c.mailbox.Await(captchaPollAttempts, captchaPollInterval)
	if answer == "" {
		return
	}

	captchaSelector := site.Login.Captcha
	if captchaSelector == "" {
		captchaSelector = "input#siteguard_captcha"
	}
	page.Locator(captchaSelector).First().Fill(answer)
}

// classifyOutcome decides success by where submission landed: still on a
// login-looking URL, or a still-visible username field, means failure.
func (c *Controller) classifyOutcome(page playwright.Page, site *sites.Site, emit stream.EmitFunc) {
	currentURL := page.URL()
	stillOnLogin := strings.Contains(currentURL, "signin") || strings.Contains(currentURL, "login")
	formVisible, _ := page.Locator(site.Login.User).First().IsVisible()

	if stillOnLogin || formVisible {
		emit(stream.Log(stream.LevelError, fmt.Sprintf("%s: ログインに失敗しました。ID/PASSまたは画像認証が間違っている可能性があります。", site.Key)))
		return
	}
	emit(stream.Log(stream.LevelSuccess, fmt.Sprintf("%s: ログイン成功。", site.Key)))
}
