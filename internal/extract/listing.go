// Reads the current results view into normalized listing records. Pure DOM
// read; no navigation, no mutation beyond the lazy-load scroll performed
// before extraction.

package extract

import (
	"encoding/json"
	"fmt"

	"go-jobdb-automation/internal/browser"
	"go-jobdb-automation/internal/models"
	"go-jobdb-automation/internal/sites"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/playwright-community/playwright-go"
)

const lazyLoadTarget = 20

// Reads every row matching the item locator, structurally excluding page
// chrome (headers, popovers, modals, notification regions, sidebars). The
// synthetic path additionally content-filters rows without the 求人ID marker,
// drops notification vocabulary, de-duplicates on (title, company, salary)
// and assigns positional placeholder URLs, because the site exposes no
// per-row address. The generic path requires a resolvable URL per row.
const extractListingsJS = `({ selectors, source, synthetic }) => {
	let items = Array.from(document.querySelectorAll(selectors.item));

	items = items.filter(el => {
		const isPopup = el.closest('header, [class*="header"], [class*="popover"], [class*="modal"], [role="dialog"], [class*="Notification"], [class*="dropdown"], [class*="jb-absolute"]');
		const isSidebar = el.closest('aside, [class*="sidebar"]');
		return !isPopup && !isSidebar;
	});

	if (synthetic) {
		items = items.filter(el => {
			const text = el.innerText;
			const hasId = text.includes('求人ID');
			const isNotNotification = !text.includes('通知') && !text.includes('お知らせ') && !text.includes('既読');
			return hasId && isNotNotification;
		});

		const seen = new Set();
		return items.map((item, idx) => {
			const titleEl = item.querySelector(selectors.title);
			let title = '無題の求人';
			if (titleEl) title = titleEl.innerText?.trim() || titleEl.textContent?.trim() || '無題の求人';
			else {
				const h = item.querySelector('h1, h2, h3, h4, [class*="job-title"]');
				title = h?.innerText?.trim() || h?.textContent?.trim() || '無題の求人';
			}

			if (title.includes('通知') || title.includes('お知らせ') || title.includes('既読') || title.includes('メッセージ')) return null;

			const text = item.innerText || '';
			const compMatch = text.match(/採用企業\s*([^\n]+)/);
			const company = compMatch ? compMatch[1].trim() : '社名非公開';
			const salMatch = text.match(/(\d+万円[～~]\d+万円|\d+万円～|\d+万円)/);
			const salary = salMatch ? salMatch[0] : '要確認';

			const key = title + '-' + company + '-' + salary;
			if (seen.has(key)) return null;
			seen.add(key);

			// no addressable detail URL; carry the row position instead
			const url = 'https://jobins.jp/agent/job/click_index=' + idx;

			let location = '不明';
			const locs = ['東京', '神奈川', '埼玉', '千葉', '大阪', '京都', '兵庫', '愛知', '福岡', '北海道'];
			for (const l of locs) { if (text.includes(l)) { location = l; break; } }

			const updateMatch = text.match(/(\d{4}[/-]\d{1,2}[/-]\d{1,2})|(\d+日前)/);
			const statusMatch = text.match(/(募集中|面談設定済|選考中|内定|不合格|辞退)/);

			return {
				source, title, url, company, location, salary,
				updateDate: updateMatch ? updateMatch[0] : '',
				status: statusMatch ? statusMatch[0] : ''
			};
		}).filter(item => item !== null);
	}

	return items.map((item) => {
		const titleEl = item.querySelector(selectors.title);
		let title = '無題の求人';
		if (titleEl) {
			title = titleEl.innerText?.trim() || titleEl.textContent?.trim() || '無題の求人';
		}

		// table-shaped layouts carry fields as th/td label pairs
		const findTextByTh = (label) => {
			const ths = Array.from(item.querySelectorAll('th'));
			const th = ths.find(el => el.innerText.includes(label));
			return th?.nextElementSibling?.innerText?.trim() || '';
		};

		let company = '';
		let location = '';
		let salary = '';

		if (source === 'careerbank') {
			company = findTextByTh('企業名');
			location = findTextByTh('勤務地');
			salary = findTextByTh('年収');
		} else {
			company = item.querySelector(selectors.company)?.innerText?.trim();
			location = item.querySelector(selectors.location)?.innerText?.trim();
			salary = item.querySelector(selectors.salary)?.innerText?.trim();
		}

		return {
			source,
			title,
			url: (titleEl && titleEl.tagName === 'A') ? titleEl.href : '',
			company: company || '社名非公開',
			location: location || '不明',
			salary: salary || '要確認',
			updateDate: '',
			status: ''
		};
	}).filter(item => item !== null && item.url);
}`

// LoadLazyRows scrolls to the bottom up to three times to trigger lazy-loaded
// rows, settling between cycles and stopping early once enough rows exist.
// Escape presses clear stray popovers that would otherwise sit over rows.
func LoadLazyRows(page playwright.Page, site *sites.Site) {
	page.Keyboard().Press("Escape")
	browser.SmoothScroll(page)
	for i := 0; i < 3; i++ {
		browser.ScrollToBottom(page)
		page.WaitForTimeout(2000)
		count, err := page.Locator(site.Fields.Item).Count()
		if err == nil && count >= lazyLoadTarget {
			break
		}
		browser.RandomDelay(300, 800)
	}
	page.Keyboard().Press("Escape")
}

// Listings extracts the normalized listing set from the current view and
// removes rows sharing both URL and title.
func Listings(page playwright.Page, site *sites.Site) ([]models.JobListing, error) {
	raw, err := page.Evaluate(extractListingsJS, map[string]interface{}{
		"selectors": map[string]string{
			"item":     site.Fields.Item,
			"title":    site.Fields.Title,
			"company":  site.Fields.Company,
			"location": site.Fields.Location,
			"salary":   site.Fields.Salary,
		},
		"source":    site.Key,
		"synthetic": site.SyntheticLocators,
	})
	if err != nil {
		return nil, fmt.Errorf("listing extraction failed: %w", err)
	}

	var listings []models.JobListing
	if err := decodeInto(raw, &listings); err != nil {
		return nil, fmt.Errorf("could not decode listings: %w", err)
	}
	return Dedupe(listings), nil
}

// Dedupe removes listings sharing both URL and title, keeping first
// occurrences in order.
func Dedupe(listings []models.JobListing) []models.JobListing {
	seen := mapset.NewSet[string]()
	unique := make([]models.JobListing, 0, len(listings))
	for _, l := range listings {
		key := l.URL + "\x00" + l.Title
		if seen.Add(key) {
			unique = append(unique, l)
		}
	}
	return unique
}

// decodeInto converts an Evaluate result into a typed value via a JSON
// round-trip; playwright hands back loosely-typed maps.
func decodeInto(raw interface{}, out interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
