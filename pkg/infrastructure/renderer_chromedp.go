package infrastructure

import (
	"bytes"
	"context"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

type ChromedpRenderer struct{}

func NewChromedpRenderer() *ChromedpRenderer { return &ChromedpRenderer{} }

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 25mm 22mm; }
  body { font-family: Georgia, 'Times New Roman', serif; font-size: 11.5pt; color: #1f2328; line-height: 1.55; }
  .sender { font-size: 14pt; font-weight: bold; margin-bottom: 2mm; }
  .date { color: #57606a; margin-bottom: 10mm; }
  p { margin: 0 0 5mm 0; text-align: justify; }
</style>
</head>
<body>
  <div class="sender">{{.Applicant}}</div>
  <div class="date">{{.Date}}</div>
  {{range .Paragraphs}}<p>{{.}}</p>
  {{end}}
</body>
</html>
`))

// RenderCoverLetterPDF lays the letter text out as a dated A4 letter and
// renders it through headless Chrome.
func (r *ChromedpRenderer) RenderCoverLetterPDF(ctx context.Context, applicant, letter string) ([]byte, error) {
	var buf bytes.Buffer
	err := letterTemplate.Execute(&buf, struct {
		Applicant  string
		Date       string
		Paragraphs []template.HTML
	}{
		Applicant:  applicant,
		Date:       time.Now().Format("January 2, 2006"),
		Paragraphs: letterParagraphs(letter),
	})
	if err != nil {
		return nil, err
	}
	return r.RenderHTMLToPDF(ctx, buf.String())
}

// letterParagraphs splits the letter on blank lines. Single newlines inside a
// paragraph (the sign-off, typically) survive as <br>.
func letterParagraphs(letter string) []template.HTML {
	letter = strings.ReplaceAll(letter, "\r\n", "\n")
	var out []template.HTML
	for _, block := range strings.Split(letter, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, ln := range lines {
			lines[i] = template.HTMLEscapeString(strings.TrimSpace(ln))
		}
		out = append(out, template.HTML(strings.Join(lines, "<br>")))
	}
	return out
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	// prepare exec allocator with optional CHROME_PATH
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	// ensure Chrome starts
	ctx2, cancel2 := context.WithTimeout(cctx, 60*time.Second)
	defer cancel2()

	tmpDir, err := os.MkdirTemp("", "letter-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	htmlURL := "file://" + htmlPath
	err = chromedp.Run(ctx2,
		chromedp.Navigate(htmlURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
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
