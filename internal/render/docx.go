package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont     = "Times New Roman"
	docxFontSize = 13
	docxAccent   = "1F4E79"
)

// writeDOCX renders the same classified lines into a Word document next to the PDF.
func writeDOCX(title string, lines []Line, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addRun(doc.AddParagraph(""), title, true, 18, docxAccent)

	for _, line := range lines {
		p := doc.AddParagraph("")
		switch line.Kind {
		case KindHeading:
			addRun(p, line.Text, true, docxHeadingSize(line.Level), docxAccent)
		case KindBullet:
			addRun(p, "• "+line.Text, false, docxFontSize, "000000")
		case KindNumbered:
			addRun(p, line.Number+" "+line.Text, false, docxFontSize, "000000")
		default:
			addRun(p, line.Text, false, docxFontSize, "000000")
		}
	}

	tmpPath := filepath.Join(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".tmp")
	if err := doc.SaveTo(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("save docx: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename docx: %w", err)
	}
	return nil
}

func docxHeadingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return docxFontSize
	}
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64, color string) {
	run := p.AddText(text).Font(docxFont).Size(size).Color(color)
	if bold {
		run.Bold(true)
	}
}
