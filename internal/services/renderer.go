package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const (
	DefaultTailwindCDN = "https://cdn.tailwindcss.com"

	cvRootID = "cv-root"
	// A4 in inches.
	a4Width  = 8.27
	a4Height = 11.69
)

// tailwindSettle is how long the page gets to apply CDN styles before capture.
var tailwindSettle = 750 * time.Millisecond

// Renderer turns CV HTML into a PNG screenshot or a printable PDF using a
// headless Chrome.
type Renderer interface {
	RenderPNG(ctx context.Context, html string) ([]byte, error)
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type chromeRenderer struct {
	timeout     time.Duration
	tailwindURL string
}

func NewRenderer(timeout time.Duration, tailwindURL string) Renderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if tailwindURL == "" {
		tailwindURL = DefaultTailwindCDN
	}
	return &chromeRenderer{timeout: timeout, tailwindURL: tailwindURL}
}

func (r *chromeRenderer) RenderPNG(ctx context.Context, cvHTML string) ([]byte, error) {
	var buf []byte
	if err := r.run(ctx, cvHTML, chromedp.Screenshot("#"+cvRootID, &buf, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("failed to render PNG: %w", err)
	}
	log.Printf("📸 Rendered CV screenshot: %d bytes\n", len(buf))
	return buf, nil
}

func (r *chromeRenderer) RenderPDF(ctx context.Context, cvHTML string) ([]byte, error) {
	var buf []byte
	printPDF := chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4Width).
			WithPaperHeight(a4Height).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			Do(ctx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	})

	if err := r.run(ctx, cvHTML, printPDF); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	log.Printf("📄 Rendered CV PDF: %d bytes\n", len(buf))
	return buf, nil
}

func (r *chromeRenderer) run(ctx context.Context, cvHTML string, capture chromedp.Action) error {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	doc := BuildDocument(cvHTML, r.tailwindURL)
	return chromedp.Run(browserCtx,
		chromedp.EmulateViewport(1240, 1754),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitReady("#"+cvRootID, chromedp.ByQuery),
		chromedp.Sleep(tailwindSettle),
		capture,
	)
}

// BuildDocument wraps a CV fragment in a standalone light-themed page that
// loads Tailwind from the CDN.
func BuildDocument(cvHTML, tailwindURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>CV</title>
<script src="%s"></script>
</head>
<body class="bg-white">
<div id="%s">%s</div>
</body>
</html>`, html.EscapeString(tailwindURL), cvRootID, cvHTML)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportFileName builds the download name for a CV, e.g. "CV-Jane-Doe.pdf".
func ExportFileName(personName string) string {
	name := strings.TrimSpace(personName)
	if name == "" {
		name = "Untitled"
	}
	return "CV-" + whitespaceRun.ReplaceAllString(name, "-") + ".pdf"
}
