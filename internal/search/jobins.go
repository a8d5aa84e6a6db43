package search

import (
	"fmt"

	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/sites"
	"go-jobdb-automation/internal/stream"

	"github.com/playwright-community/playwright-go"
)

// Region each prefecture belongs to on the site's hierarchical location
// picker; the coarse column must be selected before the prefecture column
// repopulates.
var jobinsRegionMap = map[string]string{
	"東京都": "首都圏", "神奈川県": "首都圏", "埼玉県": "首都圏", "千葉県": "首都圏",
	"茨城県": "北関東", "栃木県": "北関東", "群馬県": "北関東",
	"大阪府": "近畿", "京都府": "近畿", "兵庫県": "近畿", "奈良県": "近畿", "和歌山県": "近畿", "滋賀県": "近畿",
	"愛知県": "東海", "静岡県": "東海", "岐阜県": "東海", "三重県": "東海",
	"福岡県": "九州", "佐賀県": "九州", "長崎県": "九州", "熊本県": "九州", "大分県": "九州", "宮崎県": "九州", "鹿児島県": "九州", "沖縄県": "九州",
	"北海道": "北海道",
	"青森県": "東北", "岩手県": "東北", "宮城県": "東北", "秋田県": "東北", "山形県": "東北", "福島県": "東北",
}

// JIS prefecture codes used by the picker's checkbox ids.
var jobinsPrefectureIDMap = map[string]string{
	"東京都": "13", "神奈川県": "14", "埼玉県": "11", "千葉県": "12",
	"大阪府": "27", "愛知県": "23", "福岡県": "40", "北海道": "01",
}

var jobinsAppCategoryLabels = map[string]string{
	"career":       "中途",
	"new-graduate": "新卒",
}

// Clicks through to the job search view from wherever login landed.
const jobinsNavJS = `() => {
	const btns = Array.from(document.querySelectorAll('a, button, li'));
	const btn = btns.find(el => el.innerText.includes('求人検索') || el.innerText.includes('求人/推薦'));
	if (btn) btn.click();
}`

const jobinsNeedsAndSwitchJS = `() => {
	const drop = document.querySelector('[class*="jb-operator-dropdown"]');
	return drop && !drop.innerText.includes('AND');
}`

const jobinsPickAndOptionJS = `() => {
	const items = Array.from(document.querySelectorAll('div, span, li, a'));
	const andOpt = items.find(el => el.innerText.trim().startsWith('AND'));
	if (andOpt) andOpt.click();
}`

// Toggles the checkbox living inside (or behind) the label with exactly the
// given text.
const jobinsToggleExactLabelJS = `(txt) => {
	const labels = Array.from(document.querySelectorAll('label, div, span'));
	const match = labels.find(l => l.innerText?.trim() === txt);
	if (match) {
		const cb = match.querySelector('input[type="checkbox"]');
		if (cb) { if (!cb.checked) cb.click(); }
		else match.click();
	}
}`

const jobinsExperienceJS = `() => {
	const labels = Array.from(document.querySelectorAll('label, div, span'));
	['職種未経験OK', '完全未経験OK'].forEach(txt => {
		const match = labels.find(l => l.innerText?.includes(txt));
		if (match) {
			const cb = match.querySelector('input[type="checkbox"]');
			if (cb && !cb.checked) cb.click();
			else if (!cb) match.click();
		}
	});
}`

// Finds the input near the 最低年収 label and fires the synthetic events the
// reactive form listens for. Returns whether an input was found.
const jobinsSalaryJS = `(val) => {
	const elements = Array.from(document.querySelectorAll('div, span, label'));
	const label = elements.find(el => el.innerText.includes('最低年収'));
	if (!label) return false;

	const container = label.closest('div[class*="jb-"]') || label.parentElement;
	const input = container?.parentElement?.querySelector('input[placeholder="入力"], input[type="number"]') ||
		document.querySelector('input[placeholder="入力"]');

	if (input) {
		input.value = val;
		input.dispatchEvent(new Event('input', { bubbles: true }));
		input.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	}
	return false;
}`

// Opens the facet picker attached to the label with exactly the given text.
// Returns whether the picker control was found and clicked.
const jobinsOpenFacetJS = `(l) => {
	const labels = Array.from(document.querySelectorAll('label, div, span'));
	const targetLabel = labels.find(el => el.innerText?.trim() === l);
	if (!targetLabel) return false;

	const container = targetLabel.closest('div[class*="jb-"], .jb-border') || targetLabel.parentElement;
	const btn = container.querySelector('button, [class*="cursor-pointer"], .jb-border') || container;
	btn.click();
	return true;
}`

// Drives the selection inside an open facet modal. The modal lays its levels
// out as scrollable columns; coarse level first, then the dependent column
// once it repopulates. Option matching prefers an exact label match before
// substring containment so a sibling whose label is a superstring of the
// target is never picked.
const jobinsModalSelectJS = `async ({ l, v, region, prefID }) => {
	const modal = document.querySelector('[class*="jb-shadow-"], [role="dialog"], [class*="modal"]') || document.body;
	const sleep = (ms) => new Promise(r => setTimeout(r, ms));

	const getColumns = () => {
		const containers = Array.from(modal.querySelectorAll('div')).filter(el => {
			const style = window.getComputedStyle(el);
			return (style.overflowY === 'auto' || style.overflow === 'auto') && el.offsetHeight > 150;
		});
		return containers.filter(c => !containers.some(other => other !== c && other.contains(c)));
	};

	const findInColumn = (column, text) => {
		if (!column) return null;
		const els = Array.from(column.querySelectorAll('li, div, span, label, button'));
		const norm = (el) => (el.innerText || "").trim().replace(/\n/g, ' ');
		return els.find(el => norm(el) === text) || els.find(el => norm(el).includes(text));
	};

	const cols = getColumns();

	if (l === '勤務地') {
		const regionCol = cols[0] || modal;
		const regItem = findInColumn(regionCol, region);
		if (regItem) {
			regItem.click();
			await sleep(1500);
		}

		const prefCol = cols.length > 1 ? cols[1] : modal;
		let prefInput = prefID ? prefCol.querySelector('#prefecture_' + prefID) : null;

		if (!prefInput) {
			const prefLabel = findInColumn(prefCol, v);
			prefInput = prefLabel?.querySelector('input[type="checkbox"]') || prefLabel?.parentElement?.querySelector('input[type="checkbox"]');
			if (!prefInput && prefLabel) { prefLabel.click(); return 'ok'; }
		}

		if (prefInput) {
			if (!prefInput.checked) prefInput.click();
			return 'ok';
		}
		return 'prefecture_not_found';
	}

	if (l === '職種') {
		const catCol = cols[0] || modal;
		let catItem = findInColumn(catCol, v);
		if (!catItem && (v.includes('エンジニア') || v.includes('IT'))) {
			catItem = findInColumn(catCol, 'ITエンジニア') || findInColumn(catCol, 'エンジニア');
		}
		if (catItem) {
			catItem.click();
			await sleep(1500);
		}

		const jobCol = cols.length > 1 ? cols[cols.length - 1] : modal;

		const allBtn = Array.from(modal.querySelectorAll('button, span, div')).find(el => el.innerText?.trim() === 'すべて選択');
		if (allBtn) {
			allBtn.click();
			return 'ok';
		}

		const subItem = findInColumn(jobCol, v);
		if (subItem) {
			const cb = subItem.querySelector('input[type="checkbox"]') || subItem.parentElement.querySelector('input[type="checkbox"]');
			if (cb) { if (!cb.checked) cb.click(); }
			else subItem.click();
			return 'ok';
		}
		return 'item_not_found';
	}
	return 'unhandled';
}`

const jobinsConfirmFacetJS = `() => {
	const btns = Array.from(document.querySelectorAll('button'));
	const applyBtn = btns.find(b => b.innerText.includes('この条件を反映する') || b.innerText.includes('反映する') || b.innerText.includes('確定'));
	if (applyBtn) applyBtn.click();
}`

// jobinsAdapter drives the agent portal: AND operator dropdown, application
// category and experience checkboxes, a salary floor input, and two
// hierarchical modal pickers, finished by tag-style keyword entry.
type jobinsAdapter struct {
	site *sites.Site
}

func (a *jobinsAdapter) Key() string { return a.site.Key }

func (a *jobinsAdapter) Apply(page playwright.Page, criteria models.FilterCriteria, emit stream.EmitFunc) {
	// land on the search view first; login drops us on a dashboard
	page.WaitForTimeout(5000)
	page.Evaluate(jobinsNavJS)
	page.WaitForTimeout(5000)

	box := findSearchBox(page, a.site, emit)

	a.ensureAndOperator(page)

	if criteria.AppCategory != "" {
		if target, ok := jobinsAppCategoryLabels[criteria.AppCategory]; ok {
			emit(stream.Log(stream.LevelInfo, fmt.Sprintf("Jobins: 応募区分「%s」をセット中...", target)))
			page.Evaluate(jobinsToggleExactLabelJS, target)
			page.WaitForTimeout(1000)
		}
	}

	if criteria.MinSalary != "" {
		emit(stream.Log(stream.LevelInfo, fmt.Sprintf("Jobins: 最低年収「%s万円」をセット中...", criteria.MinSalary)))
		set, err := page.Evaluate(jobinsSalaryJS, criteria.MinSalary)
		if err != nil || set != true {
			emit(stream.Log(stream.LevelWarning, "Jobins: 年収入力欄が見つかりませんでした。"))
		}
		page.WaitForTimeout(1000)
	}

	if criteria.Experience == "no-experience" {
		emit(stream.Log(stream.LevelInfo, "Jobins: 「未経験OK」をセット中..."))
		page.Evaluate(jobinsExperienceJS)
		page.WaitForTimeout(2000)
	}

	if criteria.JobCategory != "" {
		a.applyFacet(page, "職種", criteria.JobCategory, emit)
	}
	if criteria.Location != "" {
		a.applyFacet(page, "勤務地", criteria.Location, emit)
	}

	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("%s で検索を実行中...", a.site.Key)))
	typeQuery(page, box, criteria.Query, true)
	submitSearch(page)
}

func (a *jobinsAdapter) ensureAndOperator(page playwright.Page) {
	needsSwitch, err := page.Evaluate(jobinsNeedsAndSwitchJS)
	if err != nil || needsSwitch != true {
		return
	}
	page.Locator("[class*=\"jb-operator-dropdown\"] button").First().Click()
	page.WaitForTimeout(1000)
	page.Evaluate(jobinsPickAndOptionJS)
	page.WaitForTimeout(1000)
}

// applyFacet opens one modal picker, drives the coarse-to-fine selection, and
// invokes the confirm control. Failures are warnings; the search continues
// with whatever facets stuck.
func (a *jobinsAdapter) applyFacet(page playwright.Page, label, value string, emit stream.EmitFunc) {
	emit(stream.Log(stream.LevelInfo, fmt.Sprintf("Jobins: %s「%s」を選択中...", label, value)))

	opened, err := page.Evaluate(jobinsOpenFacetJS, label)
	if err != nil || opened != true {
		emit(stream.Log(stream.LevelWarning, fmt.Sprintf("Jobins: %sの選択エリアが見つかりません。", label)))
		return
	}
	page.WaitForTimeout(2000)

	region, ok := jobinsRegionMap[value]
	if !ok {
		region = "首都圏"
	}
	result, err := page.Evaluate(jobinsModalSelectJS, map[string]interface{}{
		"l":      label,
		"v":      value,
		"region": region,
		"prefID": jobinsPrefectureIDMap[value],
	})
	if err != nil {
		emit(stream.Log(stream.LevelWarning, fmt.Sprintf("Jobins: %s設定中にエラー: %v", label, err)))
	} else if result != "ok" {
		emit(stream.Log(stream.LevelWarning, fmt.Sprintf("Jobins: %s「%s」を選択できませんでした (%v)。", label, value, result)))
	}

	page.Evaluate(jobinsConfirmFacetJS)
	page.WaitForTimeout(2000)
}
