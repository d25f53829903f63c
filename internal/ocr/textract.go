package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// TextractAPI is the subset of the Textract client used for frame OCR.
type TextractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// Textract sends frame bytes to AWS Textract and joins the detected LINE blocks.
type Textract struct {
	client TextractAPI
}

// NewTextract creates a Textract-backed Engine.
func NewTextract(client TextractAPI) *Textract {
	return &Textract{client: client}
}

// NewTextractFromConfig builds the engine from a loaded AWS config.
func NewTextractFromConfig(cfg aws.Config) *Textract {
	return NewTextract(textract.NewFromConfig(cfg))
}

func (t *Textract) Name() string { return "textract" }

func (t *Textract) Recognize(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read frame: %w", err)
	}

	out, err := t.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
	if err != nil {
		return "", fmt.Errorf("textract detect: %w", err)
	}

	var lines []string
	for _, block := range out.Blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if line := strings.TrimSpace(*block.Text); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
