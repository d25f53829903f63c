package render

import (
	"context"
	"errors"
)

// ErrRender marks a document that could not be produced.
var ErrRender = errors.New("render failed")

const (
	LayoutFlat     = "flat"
	LayoutSections = "sections"
)

// Request describes one notes document to render.
type Request struct {
	Title    string
	Markdown string
	// OutputPath is the final PDF path. The DOCX companion uses the same base name.
	OutputPath string
}

// Output lists the files written by Render.
type Output struct {
	PDFPath  string
	PDFSize  int64
	Pages    int
	DOCXPath string
}

// Renderer turns markdown notes into durable document files.
type Renderer interface {
	Render(ctx context.Context, req Request) (Output, error)
}
