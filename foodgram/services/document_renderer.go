package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 14px; margin: 32px; }
h1 { font-size: 20px; }
pre { font-family: inherit; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<pre>{{.Text}}</pre>
</body>
</html>`))

// PDFRenderer prints a plain-text document to PDF with headless Chrome.
type PDFRenderer struct {
	allocOpts []chromedp.ExecAllocatorOption
	logger    *slog.Logger
}

func NewPDFRenderer() *PDFRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	return &PDFRenderer{
		allocOpts: opts,
		logger:    slog.With(slog.String("service", "pdf_renderer")),
	}
}

func (r *PDFRenderer) Render(ctx context.Context, title, text string) ([]byte, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, struct{ Title, Text string }{title, text}); err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	html := buf.String()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, r.allocOpts...)
	defer cancel()

	chromedpCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	var pdf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	)
	if err != nil {
		r.logger.Error("Failed to render PDF",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	r.logger.Info("PDF rendered",
		slog.Int("size", len(pdf)),
		slog.Duration("elapsed", time.Since(start)))
	return pdf, nil
}

// Available checks that a browser can be started.
func (r *PDFRenderer) Available(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, r.allocOpts...)
	defer cancel()
	chromedpCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	return chromedp.Run(chromedpCtx, chromedp.Navigate("about:blank"))
}

// PlainRenderer returns the text unchanged. The export is still served as
// shopping_cart.pdf, only the body format differs.
type PlainRenderer struct{}

func (PlainRenderer) Render(_ context.Context, _, text string) ([]byte, error) {
	return []byte(text), nil
}
