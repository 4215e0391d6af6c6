//go:build !tesseract

package ocr

import "fmt"

// NewTesseractEngine reports that Tesseract support was not compiled in.
// Build with -tags tesseract to enable it.
func NewTesseractEngine(languages []string) (Engine, error) {
	return nil, fmt.Errorf("%w: tesseract (build with -tags tesseract)", ErrEngineUnavailable)
}
