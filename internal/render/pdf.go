package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Helvetica"
	bodySize   = 11
	lineHeight = 6
	indent     = 6
)

var defaultAccent = [3]int{31, 78, 121}

// Render writes the PDF (and optional DOCX companion) and returns once the files are durable.
func (r *implRenderer) Render(ctx context.Context, req Request) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if req.OutputPath == "" {
		return Output{}, fmt.Errorf("%w: output path required", ErrRender)
	}

	lines := Parse(req.Markdown)
	pdf := r.newDocument(req.Title)

	switch r.opts.Layout {
	case LayoutSections:
		drawSections(pdf, Group(lines))
	default:
		pdf.AddPage()
		drawLines(pdf, lines, defaultAccent)
	}

	if err := pdf.Error(); err != nil {
		return Output{}, fmt.Errorf("%w: build pdf: %v", ErrRender, err)
	}

	size, err := writeAtomic(req.OutputPath, pdf.Output)
	if err != nil {
		return Output{}, fmt.Errorf("%w: write pdf: %v", ErrRender, err)
	}
	pages := pdf.PageCount()
	r.logger.Info(ctx, "Rendered %s (%s, %d pages, %d lines)", req.OutputPath, humanize.Bytes(uint64(size)), pages, len(lines))

	out := Output{PDFPath: req.OutputPath, PDFSize: size, Pages: pages}
	if r.opts.DOCX {
		docxPath := strings.TrimSuffix(req.OutputPath, filepath.Ext(req.OutputPath)) + ".docx"
		if err := writeDOCX(req.Title, lines, docxPath); err != nil {
			r.logger.Warn(ctx, "DOCX companion not written: %v", err)
		} else {
			out.DOCXPath = docxPath
		}
	}
	return out, nil
}

func (r *implRenderer) newDocument(title string) *gofpdf.Fpdf {
	now := r.opts.Clock()
	footer := toCP1252(r.opts.Footer)
	header := toCP1252(title)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(title, true)
	pdf.SetCreator("lecture-notes", false)
	pdf.SetMargins(18, 20, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("{nb}")

	pdf.SetHeaderFuncMode(func() {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.SetDrawColor(200, 200, 200)
		pdf.CellFormat(0, 8, header, "B", 1, "L", false, 0, "")
		pdf.Ln(4)
	}, true)

	pdf.SetFooterFunc(func() {
		w, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		half := (w - left - right) / 2

		pdf.SetY(-14)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(half, 8, footer, "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	return pdf
}

func drawSections(pdf *gofpdf.Fpdf, sections []Section) {
	pdf.AddPage()
	for _, s := range sections {
		style := bucketStyles[s.Bucket]
		accent := style.accent

		pdf.SetFont(fontFamily, "B", 13)
		pdf.SetFillColor(accent[0], accent[1], accent[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(0, 9, " "+toCP1252(style.title), "", 1, "L", true, 0, "")
		pdf.Ln(3)

		drawLines(pdf, s.Lines, accent)
		pdf.Ln(4)
	}
}

func drawLines(pdf *gofpdf.Fpdf, lines []Line, accent [3]int) {
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()

	for _, line := range lines {
		text := toCP1252(line.Text)

		switch line.Kind {
		case KindHeading:
			pdf.Ln(2)
			pdf.SetFont(fontFamily, "B", headingSize(line.Level))
			pdf.SetTextColor(accent[0], accent[1], accent[2])
			pdf.MultiCell(0, lineHeight+1, text, "", "L", false)
			// Every heading gets a divider; deeper levels get a lighter one.
			y := pdf.GetY() + 0.5
			pdf.SetDrawColor(accent[0], accent[1], accent[2])
			pdf.SetLineWidth(dividerWidth(line.Level))
			pdf.Line(left, y, w-right, y)
			pdf.Ln(3)

		case KindBullet:
			setBody(pdf)
			pdf.SetX(left + indent)
			pdf.CellFormat(5, lineHeight, toCP1252("•"), "", 0, "L", false, 0, "")
			pdf.MultiCell(0, lineHeight, text, "", "L", false)
			pdf.Ln(0.5)

		case KindNumbered:
			setBody(pdf)
			pdf.SetX(left + indent)
			pdf.CellFormat(8, lineHeight, line.Number, "", 0, "L", false, 0, "")
			pdf.MultiCell(0, lineHeight, text, "", "L", false)
			pdf.Ln(0.5)

		default:
			setBody(pdf)
			pdf.SetX(left)
			pdf.MultiCell(0, lineHeight, text, "", "J", false)
			pdf.Ln(1.5)
		}
	}
}

func setBody(pdf *gofpdf.Fpdf) {
	pdf.SetFont(fontFamily, "", bodySize)
	pdf.SetTextColor(30, 30, 30)
}

func dividerWidth(level int) float64 {
	if level <= 2 {
		return 0.3
	}
	return 0.15
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	default:
		return 12
	}
}

// writeAtomic writes through a temp file in the target directory, syncs it, checks
// that something was written, then renames it into place.
func writeAtomic(path string, write func(io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close: %w", err)
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("empty output")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("rename: %w", err)
	}
	renamed = true
	return info.Size(), nil
}
