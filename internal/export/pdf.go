// Document export: drives a source's native export control and captures the
// resulting file, falling back to rendering the page itself when no download
// fires.

package export

import (
	"fmt"
	"os"
	"time"

	"go-jobdb-automation/internal/browser"

	"github.com/playwright-community/playwright-go"
)

const downloadWait = 45 * time.Second

// Per-source export control sequences. Each step is one evaluated click; the
// settle between steps lets menus render.
var exportSteps = map[string][]string{
	"jobmiru": {
		// the export action hides behind the overflow menu
		`() => {
			const btns = Array.from(document.querySelectorAll('button, div, span'));
			const moreBtn = btns.find(b => b.innerText?.trim() === '...' || b.querySelector('svg[class*="DotsHorizontal"]'));
			if (moreBtn) moreBtn.click();
		}`,
		`() => {
			const items = Array.from(document.querySelectorAll('div, span, button, a'));
			const pdfBtn = items.find(i => i.innerText?.includes('PDF で出力'));
			if (pdfBtn) pdfBtn.click();
		}`,
	},
	"jobins": {
		`() => {
			const btns = Array.from(document.querySelectorAll('button, a'));
			const dlBtn = btns.find(b => b.innerText?.includes('ダウンロード'));
			if (dlBtn) dlBtn.click();
		}`,
		`() => {
			const items = Array.from(document.querySelectorAll('div, span, a, li'));
			const target = items.find(i => i.innerText?.includes('求人票') && i.innerText?.includes('候補者向け'));
			if (target) target.click();
		}`,
	},
	"careerbank": {
		`() => {
			const btns = Array.from(document.querySelectorAll('button, a'));
			const printBtn = btns.find(b => b.innerText?.includes('求人票') && b.innerText?.includes('印刷'));
			if (printBtn) printBtn.click();
		}`,
	},
}

// Document is one exported file.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Exporter struct {
	sessions *browser.SessionManager
}

func NewExporter(sessions *browser.SessionManager) *Exporter {
	return &Exporter{sessions: sessions}
}

// Export opens the target URL on a fresh page, drives the source's export
// control, and returns the downloaded file. When the site prints instead of
// downloading (window.print style controls), the page itself is rendered to
// PDF as a fallback.
func (e *Exporter) Export(source, targetURL, title string) (*Document, error) {
	ctx, err := e.sessions.Context(true)
	if err != nil {
		return nil, fmt.Errorf("could not acquire browser context: %w", err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not open page: %w", err)
	}
	defer page.Close()

	// the download listener must be armed before anything is clicked
	downloadCh := make(chan playwright.Download, 1)
	page.OnDownload(func(d playwright.Download) {
		select {
		case downloadCh <- d:
		default:
		}
	})

	if _, err := page.Goto(targetURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(60000),
	}); err != nil {
		return nil, fmt.Errorf("could not open %s: %w", targetURL, err)
	}
	page.WaitForTimeout(3000)

	for _, step := range exportSteps[source] {
		page.Evaluate(step)
		page.WaitForTimeout(1000)
	}

	select {
	case download := <-downloadCh:
		path, err := download.Path()
		if err != nil {
			return nil, fmt.Errorf("download did not complete: %w", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read downloaded file: %w", err)
		}
		return &Document{
			Filename:    download.SuggestedFilename(),
			ContentType: "application/octet-stream",
			Data:        data,
		}, nil
	case <-time.After(downloadWait):
	}

	// no native download fired; render the page instead
	data, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not render page to PDF: %w", err)
	}

	filename := "job.pdf"
	if title != "" {
		filename = title + ".pdf"
	}
	return &Document{
		Filename:    filename,
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
