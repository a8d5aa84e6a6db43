// Per-site filter application strategies. Each site exposes a materially
// different search UI, so this is a set of site-keyed adapters sharing one
// interface rather than one algorithm. All adapters are best-effort: a facet
// that cannot be applied becomes a warning and the remaining facets are still
// attempted.

package search

import (
	"fmt"
	"strings"

	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"

	"github.com/playwright-community/playwright-go"
)

// Result-row shapes we know how to recognize after a search submission.
const resultContainerSelector = ".jb-shadow, .jb-job-card, .feas_job_list_item, tr.grid, tbody tr"

// Adapter translates abstract criteria into one site's UI interactions.
type Adapter interface {
	Key() string
	Apply(page playwright.Page, criteria models.FilterCriteria, emit stream.EmitFunc)
}

// For returns the strategy for a site. Adding a source means adding an
// adapter here, not branching deeper inside a shared algorithm.
func For(site *sites.Site) Adapter {
	switch site.Key {
	case "careerbank":
		return &careerbankAdapter{site: site}
	case "jobmiru":
		return &jobmiruAdapter{site: site}
	case "jobins":
		return &jobinsAdapter{site: site}
	}
	return nil
}

// findSearchBox waits for the site's keyword input. If the first wait fails,
// the page is reloaded and the lookup retried once before keyword search is
// given up for this source.
func findSearchBox(page playwright.Page, site *sites.Site, emit stream.EmitFunc) playwright.ElementHandle {
	box, err := page.WaitForSelector(site.Search.Keyword, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(30000),
	})
	if err == nil {
		return box
	}

	emit(stream.Log(stream.LevelWarning, fmt.Sprintf("%s: 検索窓が見つかりません。リロードして再試行します...", site.Key)))
	page.Reload(playwright.PageReloadOptions{WaitUntil: playwright.WaitUntilStateLoad})

	box, err = page.WaitForSelector(site.Search.Keyword, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		return nil
	}
	return box
}

// typeQuery clears the box with a triple-click select and types the keywords
// with an inter-keystroke delay; reactive inputs ignore programmatic value
// assignment. With perTermEnter each term is committed separately (tag-style
// inputs), otherwise the whole query goes in as one space-separated line.
func typeQuery(page playwright.Page, box playwright.ElementHandle, query string, perTermEnter bool) {
	if box == nil || query == "" {
		return
	}
	box.Focus()
	box.Click(playwright.ElementHandleClickOptions{ClickCount: playwright.Int(3)})
	page.Keyboard().Press("Backspace")

	if perTermEnter {
		for _, kw := range splitTerms(query) {
			page.Keyboard().Type(kw, playwright.KeyboardTypeOptions{Delay: playwright.Float(50)})
			page.Keyboard().Press("Enter")
			page.WaitForTimeout(500)
		}
	} else {
		page.Keyboard().Type(query, playwright.KeyboardTypeOptions{Delay: playwright.Float(50)})
		page.Keyboard().Press("Enter")
	}
	page.WaitForTimeout(2000)
}

func splitTerms(query string) []string {
	var terms []string
	for _, t := range strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '，' || r == '　'
	}) {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// submitSearch triggers the search via an explicit submit control when one is
// visible, else the keyboard return key, then settles: a fixed wait followed
// by a bounded poll for any known results container. Absence is tolerated;
// extraction will simply find zero rows.
func submitSearch(page playwright.Page) {
	submitBtn := page.Locator("button:has-text(\"件を検索\"), .jb-bg-agent-primary").Last()
	if visible, _ := submitBtn.IsVisible(); visible {
		submitBtn.Click(playwright.LocatorClickOptions{Force: playwright.Bool(true)})
	} else {
		page.Keyboard().Press("Enter")
	}

	page.WaitForTimeout(10000)
	page.WaitForSelector(resultContainerSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	})
}
