package pdf

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/skumar93/folio/models"
)

// Renderer turns a portfolio document into PDF bytes.
type Renderer interface {
	RenderResume(ctx context.Context, doc models.PortfolioDocument, watermark bool) ([]byte, error)
}

// ChromeRenderer prints the resume template through headless Chrome. Each
// call spawns a fresh browser; resume downloads are rare enough that keeping
// a warm instance is not worth the memory.
type ChromeRenderer struct {
	chromePath string
}

func NewChromeRenderer(chromePath string) *ChromeRenderer {
	return &ChromeRenderer{chromePath: chromePath}
}

const renderTimeout = 60 * time.Second

func (r *ChromeRenderer) RenderResume(ctx context.Context, doc models.PortfolioDocument, watermark bool) ([]byte, error) {
	html, err := RenderHTML(doc, watermark)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	renderCtx, cancelRender := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelRender()

	// Chrome needs a file URL; data URLs hit length limits on large documents.
	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(renderCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> 8.27in x 11.69in
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
