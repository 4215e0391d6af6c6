//go:build tesseract

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/JonMunkholm/scorecard/internal/core"
)

// TesseractEngine runs Tesseract locally through gosseract.
type TesseractEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine creates an engine for the given Tesseract languages.
func NewTesseractEngine(languages []string) (Engine, error) {
	return &TesseractEngine{languages: languages, clientFactory: gosseract.NewClient}, nil
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize transcribes the image. Tesseract returns the text as laid out on
// the card, which matches the grid only for clean, printed scorecards.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", core.ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set page segmentation: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyTranscription
	}
	return text, nil
}
