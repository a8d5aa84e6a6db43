// Sequences the full collection flow per requested source and emits the
// event stream. Sources run strictly sequentially on their own pages; a
// failure anywhere below the batch level degrades that source or listing
// only, never the batch.

package orchestrator

import (
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"strconv"
	"strings"

	"go-jobdb-automation/internal/auth"
	"go-jobdb-automation/internal/browser"
	"go-jobdb-automation/internal/extract"
	"go-jobdb-automation/internal/match"
	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/search"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"

	"github.com/playwright-community/playwright-go"
)

// Enrichment bound per source; listings past this are extracted but not
// opened.
const topEnrich = 20

// Request is one batch submission: criteria, requested source keys, and
// per-source credentials.
type Request struct {
	models.FilterCriteria
	Databases   []string                      `json:"databases"`
	Credentials map[string]models.Credentials `json:"credentials"`
}

// Notifier receives matched jobs on a side channel. Optional.
type Notifier interface {
	SendJob(job models.EnrichedJob) error
}

// ContextProvider hands out the shared browser context. Satisfied by
// browser.SessionManager.
type ContextProvider interface {
	Context(headless bool) (playwright.BrowserContext, error)
}

type Orchestrator struct {
	sessions   ContextProvider
	auth       *auth.Controller
	screenshot *browser.ScreenshotDebugger
	notifier   Notifier
	headless   bool
}

func New(sessions ContextProvider, authController *auth.Controller, headless bool) *Orchestrator {
	return &Orchestrator{
		sessions:   sessions,
		auth:       authController,
		screenshot: browser.NewScreenshotDebugger(),
		headless:   headless,
	}
}

// WithNotifier attaches a delivery channel for matched jobs.
func (o *Orchestrator) WithNotifier(n Notifier) *Orchestrator {
	o.notifier = n
	return o
}

// Run processes one batch and always terminates the stream with a complete
// event. Only context acquisition aborts the whole batch; every per-source
// failure is contained to that source.
func (o *Orchestrator) Run(req Request, emit stream.EmitFunc) {
	defer emit(stream.Complete())

	ctx, err := o.sessions.Context(o.headless)
	if err != nil {
		emit(stream.Log(stream.LevelError, fmt.Sprintf("システムエラー: %v", err)))
		return
	}

	for _, key := range req.Databases {
		site, ok := sites.Lookup(key)
		if !ok {
			continue
		}
		o.processSource(ctx, site, req, emit)
	}
}

// processSource runs one source end to end on its own page. The page is
// always released, and a panic anywhere in the site-specific driving is
// reported as that source's failure instead of killing the batch.
func (o *Orchestrator) processSource(ctx playwright.BrowserContext, site *sites.Site, req Request, emit stream.EmitFunc) {
	page, err := ctx.NewPage()
	if err != nil {
		emit(stream.Log(stream.LevelError, fmt.Sprintf("%s エラー: %v", site.Key, err)))
		return
	}
	defer page.Close()
	defer func() {
		if r := recover(); r != nil {
			o.screenshot.CaptureAndLog(page, site.Key+"-failure", fmt.Sprintf("🚨 %s: unexpected failure", site.Key))
			emit(stream.Log(stream.LevelError, fmt.Sprintf("%s エラー: %v", site.Key, r)))
		}
	}()

	if creds, ok := req.Credentials[site.Key]; ok {
		o.auth.Login(page, site, creds, emit)
	}

	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s で画面を読み込んでいます...", site.Key)))
	o.ensureOnSearchView(page, site)

	if adapter := search.For(site); adapter != nil {
		adapter.Apply(page, req.FilterCriteria, emit)
	}

	// landing back on a login URL after search setup means the session is
	// unauthenticated; nothing extractable here
	if strings.Contains(page.URL(), "login") {
		emit(stream.Log(stream.LevelWarning, fmt.Sprintf("%s: ログインが必要です。", site.Key)))
		return
	}

	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s から求人を抽出しています...", site.Key)))
	extract.LoadLazyRows(page, site)

	listings, err := extract.Listings(page, site)
	if err != nil {
		emit(stream.Log(stream.LevelWarning, fmt.Sprintf("%s 抽出エラー: %v", site.Key, err)))
		return
	}

	if len(listings) > 0 {
		emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s: %d件を解析中 (上位%d件)...", site.Key, len(listings), topEnrich)))
		limit := len(listings)
		if limit > topEnrich {
			limit = topEnrich
		}
		for _, listing := range listings[:limit] {
			o.processListing(ctx, page, site, listing, req, emit)
		}
	}

	emit(stream.Log(stream.LevelSuccess, fmt.Sprintf("%s の解析（%d件）が完了しました。", site.Key, len(listings))))
}

// ensureOnSearchView navigates to the source's entry URL unless the page is
// already on the right host and off any login view.
func (o *Orchestrator) ensureOnSearchView(page playwright.Page, site *sites.Site) {
	pageURL := page.URL()
	host := ""
	if u, err := url.Parse(site.URL); err == nil {
		host = u.Hostname()
	}
	if host != "" && strings.Contains(pageURL, host) && !strings.Contains(pageURL, "login") && !strings.Contains(pageURL, "wp-login") {
		return
	}
	page.Goto(site.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(60000),
	})
}

// processListing opens one listing's detail view, enriches it, re-validates
// the enriched job against the criteria, and emits it on a pass. Failures
// skip this listing only.
func (o *Orchestrator) processListing(ctx playwright.BrowserContext, page playwright.Page, site *sites.Site, listing models.JobListing, req Request, emit stream.EmitFunc) {
	detailPage := o.openDetail(ctx, page, site, listing, emit)
	if detailPage == nil {
		return
	}
	defer func() {
		if detailPage != page {
			detailPage.Close()
			return
		}
		if site.SyntheticLocators {
			// the listing page itself was navigated; return to the results
			detailPage.GoBack(playwright.PageGoBackOptions{WaitUntil: playwright.WaitUntilStateLoad})
			page.WaitForTimeout(2000)
		}
	}()

	detailPage.WaitForTimeout(5000) // render settle
	detail := extract.Detail(detailPage, site.Key)

	job := models.EnrichedJob{
		JobListing: listing,
		ID:         newJobID(),
		Detail:     detail,
	}

	// a placeholder URL is replaced by the detail page actually opened
	if actual := detailPage.URL(); actual != "" && actual != "about:blank" {
		job.URL = actual
	}

	result := match.Validate(job, req.FilterCriteria)
	if !result.Match {
		emit(stream.Log(stream.LevelInfo, fmt.Sprintf("不一致によりスキップ: %s... (%s)", truncate(listing.Title, 15), result.Reason)))
		return
	}

	log.Printf("Sending job: %s", listing.Title)
	emit(stream.JobFound(job))
	emit(stream.Log(stream.LevelSuccess, fmt.Sprintf("★条件に合致: %s...", truncate(listing.Title, 20))))

	if o.notifier != nil {
		if err := o.notifier.SendJob(job); err != nil {
			log.Printf("⚠️ Failed to deliver job notification: %v", err)
		}
	}
}

// openDetail resolves the listing's detail view. Sources with synthetic
// locators re-resolve the row by position and click it in-page, waiting
// briefly for a new page and falling back to in-place navigation; this
// distinction is best-effort, the site decides which happens. All other
// sources navigate a fresh page to the listing URL.
func (o *Orchestrator) openDetail(ctx playwright.BrowserContext, page playwright.Page, site *sites.Site, listing models.JobListing, emit stream.EmitFunc) playwright.Page {
	if site.SyntheticLocators && strings.Contains(listing.URL, "click_index") {
		idx, err := strconv.Atoi(listing.URL[strings.LastIndex(listing.URL, "=")+1:])
		if err != nil {
			emit(stream.Log(stream.LevelWarning, fmt.Sprintf("解析エラー (%s): %v", truncate(listing.Title, 15), err)))
			return nil
		}

		emit(stream.Log(stream.LevelInfo, fmt.Sprintf("解析中: %s...", truncate(listing.Title, 30))))

		detailPage, err := ctx.ExpectPage(func() error {
			return extract.OpenByPosition(page, idx)
		}, playwright.BrowserContextExpectPageOptions{Timeout: playwright.Float(15000)})
		if err == nil {
			detailPage.BringToFront()
			return detailPage
		}

		// no new tab appeared; the click may have navigated in place
		if strings.Contains(page.URL(), "/job/detail/") || strings.Contains(page.URL(), "click_index") {
			return page
		}
		emit(stream.Log(stream.LevelWarning, "詳細画面が開きませんでした。スキップします。"))
		return nil
	}

	detailPage, err := ctx.NewPage()
	if err != nil {
		emit(stream.Log(stream.LevelWarning, fmt.Sprintf("解析エラー (%s): %v", truncate(listing.Title, 15), err)))
		return nil
	}
	detailPage.Goto(listing.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(30000),
	})
	return detailPage
}

const jobIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func newJobID() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = jobIDAlphabet[rand.Intn(len(jobIDAlphabet))]
	}
	return "job_" + string(b)
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
