// Enriches a listing with long-form detail fields. Field discovery is
// heuristic: scope to the largest content container, find a label for each
// target field from a per-source phrase table, then resolve the value near
// that label.

package extract

import (
	"go-jobdb-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

// fieldLabels is the label phrase table: for every source, the ordered header
// phrases that may introduce each detail field. Tuning a source means editing
// its row here, not the traversal below.
type fieldLabels struct {
	Description  []string `json:"description"`
	Requirements []string `json:"requirements"`
	Conditions   []string `json:"conditions"`
	Process      []string `json:"process"`
}

var detailLabelTable = map[string]fieldLabels{
	"jobins": {
		Description:  []string{"仕事内容", "職務内容", "業務内容", "求人概要", "募集背景"},
		Requirements: []string{"応募条件", "応募資格", "必須要件", "求める人物像", "対象となる方", "必須スキル"},
		Conditions:   []string{"給与", "福利厚生", "待遇", "休日・休暇", "勤務時間", "諸手当"},
		Process:      []string{"選考プロセス", "採用フロー", "選考の流れ"},
	},
	"careerbank": {
		Description:  []string{"仕事内容", "職務概要"},
		Requirements: []string{"応募資格", "求める経験", "スキル"},
		Conditions:   []string{"給与", "福利厚生", "諸手当", "想定勤務地"},
		Process:      []string{"選考内容", "選考プロセス", "採用の流れ"},
	},
}

// fallbackLabels serves any source without a dedicated phrase row.
var fallbackLabels = fieldLabels{
	Description:  []string{"職務内容", "仕事内容", "業務内容"},
	Requirements: []string{"応募資格", "必須要件", "スキル"},
	Conditions:   []string{"勤務条件", "福利厚生", "年収"},
	Process:      []string{"選考プロセス", "採用の流れ"},
}

// Activates the job-content tab and expands every collapsed accordion section
// so the field text is actually in the DOM.
const expandSectionsJS = `() => {
	const tabs = Array.from(document.querySelectorAll('button, [role="tab"]'));
	const contentTab = tabs.find(t => t.innerText?.includes('求人内容'));
	if (contentTab) contentTab.click();

	const triggers = document.querySelectorAll('[id^="radix-"][aria-expanded="false"]');
	triggers.forEach(t => t.click());
}`

// Resolves each field's label and value inside the largest text container.
// Label matching: exact (or exact-plus-trailing-colon) pass first, then a
// short substring pass. Value resolution: an accessible region tied to the
// label when it exposes one, else a forward sibling walk repeated up to four
// parent levels, taking the first text run past the length threshold.
const extractDetailJS = `(labels) => {
	const data = { description: '情報なし', requirements: '情報なし', conditions: '情報なし', process: '情報なし' };

	const mainArea = Array.from(document.querySelectorAll('div[class*="jb-bg-white"], main, article, [role="tabpanel"]'))
		.filter(el => el.innerText?.length > 400)
		.sort((a, b) => b.innerText.length - a.innerText.length)[0] || document.body;

	const findHeader = (keywords) => {
		const allElements = Array.from(mainArea.querySelectorAll('div, span, h1, h2, h3, h4, h5, dt, th, b, strong, [class*="font-bold"]'));
		const header = allElements.find(el => {
			const t = (el.innerText || "").trim();
			return keywords.some(k => t === k || t === k + ":" || t === k + "：");
		});
		if (header) return header;

		// substring pass, restricted to short elements so a whole paragraph
		// mentioning the phrase is never mistaken for its header
		return allElements.find(el => {
			const t = (el.innerText || "").trim();
			return t.length < 15 && keywords.some(k => t.includes(k));
		}) || null;
	};

	const resolveValue = (header) => {
		if (!header) return '情報なし';

		const id = header.id || header.getAttribute('aria-labelledby');
		if (id) {
			const region = document.querySelector('[aria-labelledby="' + id + '"], [id="' + id + '"] + div, [role="region"]');
			if (region && region.innerText.length > 20) return region.innerText.trim();
		}

		let current = header;
		for (let i = 0; i < 4; i++) {
			let next = current.nextElementSibling;
			while (next) {
				const t = (next.innerText || "").trim();
				if (t.length > 20) return t;
				next = next.nextElementSibling;
			}
			current = current.parentElement;
			if (!current || current === document.body) break;
		}
		return '情報なし';
	};

	data.description = resolveValue(findHeader(labels.description));
	data.requirements = resolveValue(findHeader(labels.requirements));
	data.conditions = resolveValue(findHeader(labels.conditions));
	data.process = resolveValue(findHeader(labels.process));

	// last resort: a leading excerpt of the scoped container
	if (data.description === '情報なし' && mainArea.innerText.length > 200) {
		data.description = mainArea.innerText.substring(0, 500) + "...";
	}

	return data;
}`

// labelsFor returns the label phrase row for a source.
func labelsFor(source string) fieldLabels {
	if labels, ok := detailLabelTable[source]; ok {
		return labels
	}
	return fallbackLabels
}

// Detail extracts the long-form fields from the detail view currently loaded
// on the page. Unresolved fields keep their sentinel.
func Detail(page playwright.Page, source string) models.JobDetail {
	if source == "jobins" {
		page.Evaluate(expandSectionsJS)
		page.WaitForTimeout(1500)
	}

	labels := labelsFor(source)
	raw, err := page.Evaluate(extractDetailJS, map[string]interface{}{
		"description":  labels.Description,
		"requirements": labels.Requirements,
		"conditions":   labels.Conditions,
		"process":      labels.Process,
	})
	if err != nil {
		return models.NewJobDetail()
	}

	detail := models.NewJobDetail()
	if err := decodeInto(raw, &detail); err != nil {
		return models.NewJobDetail()
	}
	return detail
}
