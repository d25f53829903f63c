package ocr

import (
	"context"

	"github.com/nguyentantai21042004/lecture-notes/pkg/executor"
)

// Tesseract runs the tesseract CLI and reads recognized text from stdout.
type Tesseract struct {
	binary   string
	language string
	executor executor.Executor
}

// NewTesseract creates a tesseract-backed Engine.
func NewTesseract(binary, language string, exec executor.Executor) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{binary: binary, language: language, executor: exec}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize runs: tesseract <image> stdout -l <lang>
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	return t.executor.Execute(ctx, t.binary, imagePath, "stdout", "-l", t.language)
}
