package search

import (
	"fmt"
	"regexp"

	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"

	"github.com/playwright-community/playwright-go"
)

// Checks the category checkbox whose label contains the given text. The site
// nests inputs inconsistently between its two category levels.
const careerbankCategoryJS = `(t) => {
	const match = Array.from(document.querySelectorAll('.feas_clevel_01, .feas_clevel_02, label')).find(l => (l.innerText || "").includes(t));
	const input = match?.querySelector('input') || match?.parentElement?.querySelector('input');
	if (input && !input.checked) input.click();
}`

// careerbankAdapter drives a classic WordPress search form: a select for the
// region facet, checkbox tree for job categories, plain keyword box.
type careerbankAdapter struct {
	site *sites.Site
}

func (a *careerbankAdapter) Key() string { return a.site.Key }

func (a *careerbankAdapter) Apply(page playwright.Page, criteria models.FilterCriteria, emit stream.EmitFunc) {
	box := findSearchBox(page, a.site, emit)

	if criteria.Location != "" {
		_, err := page.Locator(a.site.Search.Industry).SelectOption(playwright.SelectOptionValues{
			Labels: &[]string{criteria.Location},
		})
		if err != nil {
			// exact label miss; try a pattern match against option labels
			a.selectOptionByPattern(page, criteria.Location)
		}
	}

	if criteria.JobCategory != "" {
		if _, err := page.Evaluate(careerbankCategoryJS, criteria.JobCategory); err != nil {
			emit(stream.Log(stream.LevelWarning, fmt.Sprintf("%s: 職種の設定に失敗しました: %v", a.site.Key, err)))
		}
	}

	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s で検索を実行中...", a.site.Key)))
	typeQuery(page, box, criteria.Query, false)
	submitSearch(page)
}

// selectOptionByPattern picks the first option whose label contains the
// wanted text, the substring fallback behind the exact-label pass.
func (a *careerbankAdapter) selectOptionByPattern(page playwright.Page, wanted string) {
	options, err := page.Locator(a.site.Search.Industry+" option").All()
	if err != nil {
		return
	}
	re := regexp.MustCompile(regexp.QuoteMeta(wanted))
	for _, opt := range options {
		label, err := opt.TextContent()
		if err != nil || !re.MatchString(label) {
			continue
		}
		value, err := opt.GetAttribute("value")
		if err != nil {
			continue
		}
		page.Locator(a.site.Search.Industry).SelectOption(playwright.SelectOptionValues{
			Values: &[]string{value},
		})
		return
	}
}
