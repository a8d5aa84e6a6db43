package search

import (
	"fmt"

	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"

	"github.com/playwright-community/playwright-go"
)

// The search box ORs terms by default; flip the AND operator toggle when the
// UI exposes one.
const jobmiruAndToggleJS = `() => {
	const labels = Array.from(document.querySelectorAll('label'));
	const andLabel = labels.find(l => (l.innerText?.trim() || "") === 'AND' || (l.innerText || "").includes('AND'));
	if (andLabel) {
		const input = andLabel.querySelector('input') || andLabel.previousElementSibling;
		if (input) input.click();
	}
}`

// Sets the salary floor through whichever input sits next to the 年収 label;
// synthetic input/change events are required for the reactive form to notice.
const jobmiruSalaryJS = `(val) => {
	const labels = Array.from(document.querySelectorAll('label, span, div'));
	const salaryLabel = labels.find(l => (l.innerText?.trim() || "").includes('年収'));
	const input = salaryLabel?.querySelector('input, select') || salaryLabel?.nextElementSibling?.querySelector('input, select') || document.querySelector('input.is-select, select.is-select');
	if (input) {
		input.value = val;
		input.dispatchEvent(new Event('input', { bubbles: true }));
		input.dispatchEvent(new Event('change', { bubbles: true }));
	}
}`

// Picks the first suggestion out of the category autocomplete dropdown.
const jobmiruFirstSuggestionJS = `() => {
	const list = document.querySelector('ul[role="listbox"], .dropdown-content, [class*="listbox"]');
	const first = list?.querySelector('li, div[role="option"], [class*="item"]');
	if (first) first.click();
}`

// jobmiruAdapter drives a table-layout SPA: AND toggle, label-proximity
// salary input, autocomplete category picker, single shared keyword box.
type jobmiruAdapter struct {
	site *sites.Site
}

func (a *jobmiruAdapter) Key() string { return a.site.Key }

func (a *jobmiruAdapter) Apply(page playwright.Page, criteria models.FilterCriteria, emit stream.EmitFunc) {
	box := findSearchBox(page, a.site, emit)

	page.Evaluate(jobmiruAndToggleJS)

	if criteria.MinSalary != "" {
		emit(stream.Log(stream.LevelInfo, fmt.Sprintf("Jobmiru: 最低年収「%s万円」をセット中...", criteria.MinSalary)))
		if _, err := page.Evaluate(jobmiruSalaryJS, criteria.MinSalary); err != nil {
			emit(stream.Log(stream.LevelWarning, fmt.Sprintf("Jobmiru: 年収の設定に失敗しました: %v", err)))
		}
		page.WaitForTimeout(1000)
	}

	if criteria.JobCategory != "" {
		a.applyJobCategory(page, criteria.JobCategory, emit)
	}

	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s で検索を実行中...", a.site.Key)))
	typeQuery(page, box, criteria.Query, false)
	submitSearch(page)
}

// applyJobCategory types into the category autocomplete and accepts the
// first suggestion once the dropdown repopulates.
func (a *jobmiruAdapter) applyJobCategory(page playwright.Page, category string, emit stream.EmitFunc) {
	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("Jobmiru: 職種「%s」をセット中...", category)))

	catInput, err := page.QuerySelector(a.site.Search.JobCategory)
	if err != nil || catInput == nil {
		emit(stream.Log(stream.LevelWarning, "Jobmiru: 職種入力欄が見つかりませんでした。"))
		return
	}

	catInput.Focus()
	catInput.Fill(category)
	page.WaitForTimeout(2000)
	page.Evaluate(jobmiruFirstSuggestionJS)
	page.WaitForTimeout(2000)
}
