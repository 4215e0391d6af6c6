// Package ocr transcribes scorecard photos into the plain-text grid the
// parser expects.
package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/scorecard/internal/config"
)

// ErrEngineUnavailable is returned when the configured engine is not
// compiled into this binary.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// ErrEmptyTranscription is returned when the engine produced no text.
var ErrEmptyTranscription = errors.New("ocr transcription is empty")

// ErrEngineFailed wraps an error reported by the engine itself, such as an
// error chunk inside an otherwise successful response stream.
var ErrEngineFailed = errors.New("ocr engine reported an error")

// Engine transcribes one image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// ScorecardPrompt instructs a vision model to emit the 4-row grid.
const ScorecardPrompt = `You are an OCR system that extracts data from golf scorecard photos.
Output the scorecard as a plain-text grid, one row per line, columns separated by spaces:
Row 1: the golfer names shown on the card.
Row 2: the hole numbers 1 to 18 followed by the word Total.
Row 3: the par for each of the 18 holes followed by the total par.
Row 4 and below: one row per golfer, starting with the golfer's name, then the 18 hole scores, then the total score (the sum of the 18 hole scores).
Write each golfer's name as a single word without spaces, for example the first name only.
If a golfer's name cannot be read, write ? in place of the name.
If a score is missing or illegible, write ? in its place. Never guess a score.
Output only the grid, without explanations.`

// New returns the engine selected by cfg.Engine.
func New(cfg config.OCRConfig) (Engine, error) {
	switch cfg.Engine {
	case "ollama", "":
		return NewOllamaClient(cfg), nil
	case "tesseract":
		return NewTesseractEngine(cfg.Languages)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
	}
}
