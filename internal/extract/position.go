package extract

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Re-resolves the row set with the same filtering the extraction pass used
// and clicks the open control of the row at the given position. Position is
// the only stable handle on sources without per-row URLs.
const openByPositionJS = `(i) => {
	const items = Array.from(document.querySelectorAll('[class*="jb-shadow"], [class*="jb-border"], .job-card')).filter(el => {
		const isPopup = el.closest('header, [class*="popover"], [class*="Notification"], [class*="dropdown"]');
		const text = el.innerText || "";
		return text.includes('求人ID') && !isPopup && !text.includes('通知') && !text.includes('お知らせ');
	});
	const target = items[i];
	if (target) {
		const link = target.querySelector('a, h4, [class*="jb-text-agent-secondary"]') || target;
		link.scrollIntoView();
		link.click();
		return true;
	}
	return false;
}`

// OpenByPosition triggers the open control of the listing at index in the
// current filtered row set. The click may open a new page or replace the
// current view; the caller decides which happened.
func OpenByPosition(page playwright.Page, index int) error {
	clicked, err := page.Evaluate(openByPositionJS, index)
	if err != nil {
		return fmt.Errorf("could not click listing at position %d: %w", index, err)
	}
	if clicked != true {
		return fmt.Errorf("no listing at position %d", index)
	}
	return nil
}
