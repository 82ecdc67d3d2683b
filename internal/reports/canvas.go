package reports

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points. y grows upwards from the bottom edge.
const (
	pageWidth  = 595.0
	pageHeight = 842.0
)

type rgb struct{ R, G, B float64 }

var (
	black     = rgb{0, 0, 0}
	white     = rgb{1, 1, 1}
	navy      = rgb{0, 0, 0.3}
	gray      = rgb{0.4, 0.4, 0.4}
	brandBlue = rgb{0.2, 0.55, 0.9}
)

type font struct {
	Size float64
	Bold bool
}

// canvas is the drawing surface the layout writes to.
type canvas interface {
	AddPage()
	// FillRect fills a rectangle whose lower-left corner is (x, y).
	FillRect(x, y, w, h float64, c rgb)
	// Text draws s with its baseline at y.
	Text(x, y float64, f font, c rgb, s string)
	// SplitText wraps s into lines no wider than width.
	SplitText(s string, f font, width float64) []string
	Output() ([]byte, error)
}

// pdfCanvas renders with the core Times fonts, so text is limited to cp1252.
type pdfCanvas struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newPDFCanvas() canvas {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("diet-planner", true)
	return &pdfCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (c *pdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) FillRect(x, y, w, h float64, col rgb) {
	c.pdf.SetFillColor(channel(col.R), channel(col.G), channel(col.B))
	c.pdf.Rect(x, pageHeight-y-h, w, h, "F")
}

func (c *pdfCanvas) Text(x, y float64, f font, col rgb, s string) {
	c.setFont(f)
	c.pdf.SetTextColor(channel(col.R), channel(col.G), channel(col.B))
	c.pdf.Text(x, pageHeight-y, c.tr(s))
}

// SplitText wraps on word boundaries, measuring the translated text so
// widths match what Text will draw. A single word wider than width gets
// its own line.
func (c *pdfCanvas) SplitText(s string, f font, width float64) []string {
	c.setFont(f)
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if c.pdf.GetStringWidth(c.tr(candidate)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

func (c *pdfCanvas) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *pdfCanvas) setFont(f font) {
	style := ""
	if f.Bold {
		style = "B"
	}
	c.pdf.SetFont("Times", style, f.Size)
}

func channel(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int(v*255 + 0.5)
}
