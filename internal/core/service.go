package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/JonMunkholm/scorecard/internal/config"
	"github.com/JonMunkholm/scorecard/internal/logging"
	"github.com/JonMunkholm/scorecard/internal/metrics"
)

var (
	// ErrScanNotFound is returned for unknown or expired scan IDs.
	ErrScanNotFound = errors.New("scan not found")

	// ErrOCRUnavailable is returned by ScanImage when no recognizer is configured.
	ErrOCRUnavailable = errors.New("ocr engine unavailable")

	// ErrNoImage is returned for an empty image upload.
	ErrNoImage = errors.New("no image provided")
)

// Recognizer transcribes a scorecard image into text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// RecordStore persists accepted golfer records.
type RecordStore interface {
	// SaveRecords stores all records of one scan atomically and returns
	// the number written.
	SaveRecords(ctx context.Context, scanID string, records []GolferRecord) (int, error)
	// ListRecords returns stored records, newest first.
	ListRecords(ctx context.Context, limit int) ([]StoredRecord, error)
}

// ScanStatus is the terminal state of a scan.
type ScanStatus string

const (
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)

// ScanResult is the retained outcome of one image or text ingest.
type ScanResult struct {
	ScanID        string       `json:"scan_id"`
	Source        string       `json:"source"`
	Status        ScanStatus   `json:"status"`
	Transcription string       `json:"transcription,omitempty"`
	Parse         *ParseResult `json:"parse,omitempty"`
	Saved         int          `json:"saved"`
	StartedAt     time.Time    `json:"started_at"`
	DurationMS    int64        `json:"duration_ms"`
	Error         string       `json:"error,omitempty"`
	ErrorCode     string       `json:"error_code,omitempty"`
}

// Service runs scans: OCR, parse, validate and persist.
type Service struct {
	ocr        Recognizer
	store      RecordStore
	metrics    *metrics.Metrics
	opts       ParseOptions
	ocrTimeout time.Duration
	limiter    *ScanLimiter
	results    *cache.Cache
}

// NewService creates a Service. ocr may be nil, in which case only text
// ingest is available. m may be nil.
func NewService(cfg *config.Config, ocr Recognizer, store RecordStore, m *metrics.Metrics) (*Service, error) {
	opts, err := ParseOptionsFromConfig(cfg.Scan)
	if err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}

	retention := cfg.Scan.Retention
	if retention <= 0 {
		retention = 30 * time.Minute
	}

	return &Service{
		ocr:        ocr,
		store:      store,
		metrics:    m,
		opts:       opts,
		ocrTimeout: cfg.OCR.Timeout,
		limiter:    NewScanLimiter(cfg.Scan.MaxConcurrent, cfg.Scan.MaxWaitTime),
		results:    cache.New(retention, retention/2),
	}, nil
}

// Preview parses text without persisting or retaining anything.
func (s *Service) Preview(ctx context.Context, text string) (*ParseResult, error) {
	result, err := Parse(text, s.opts)
	if err != nil {
		logging.FromContext(ctx).Debug("preview rejected", "error", err)
		return nil, err
	}
	return result, nil
}

// IngestText parses a transcription, stores the accepted records and
// retains the result under a new scan ID. On failure the failed result is
// retained and returned along with the error.
func (s *Service) IngestText(ctx context.Context, source, text string) (*ScanResult, error) {
	res := s.begin(source)
	logger := logging.WithFields(ctx, "scan_id", res.ScanID, "source", source)
	logger.Info("text ingest started", "bytes", len(text))

	err := s.ingest(ctx, logger, res, text)
	return res, err
}

// ScanImage transcribes an image and ingests the resulting text.
// ErrTooManyScans is returned without a result when no slot frees up.
func (s *Service) ScanImage(ctx context.Context, source string, image []byte) (*ScanResult, error) {
	if s.ocr == nil {
		return nil, ErrOCRUnavailable
	}
	if len(image) == 0 {
		return nil, ErrNoImage
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, ErrTooManyScans) {
			s.metrics.RecordScan("busy")
		}
		return nil, err
	}
	defer s.limiter.Release()

	res := s.begin(source)
	logger := logging.WithFields(ctx, "scan_id", res.ScanID, "source", source)
	logger.Info("image scan started", "bytes", len(image))

	ocrCtx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	start := time.Now()
	text, err := s.ocr.Recognize(ocrCtx, image)
	cancel()
	s.metrics.ObserveOCR(time.Since(start))

	if err != nil {
		err = fmt.Errorf("recognize %s: %w", source, err)
		s.fail(logger, res, "ocr_failed", err)
		return res, err
	}
	logger.Debug("transcription received", "chars", len(text), "ocr_ms", time.Since(start).Milliseconds())

	err = s.ingest(ctx, logger, res, text)
	return res, err
}

// GetScan returns a retained scan result.
func (s *Service) GetScan(id string) (*ScanResult, error) {
	v, ok := s.results.Get(id)
	if !ok {
		return nil, ErrScanNotFound
	}
	return v.(*ScanResult), nil
}

// ListRecords returns stored records, newest first.
func (s *Service) ListRecords(ctx context.Context, limit int) ([]StoredRecord, error) {
	records, err := s.store.ListRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// LimiterStatus reports scan slot usage.
func (s *Service) LimiterStatus() ScanLimiterStatus {
	return s.limiter.Status()
}

// WaitForScans blocks until in-flight image scans finish or ctx is done.
func (s *Service) WaitForScans(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) begin(source string) *ScanResult {
	return &ScanResult{
		ScanID:    uuid.New().String(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
}

func (s *Service) ingest(ctx context.Context, logger *slog.Logger, res *ScanResult, text string) error {
	res.Transcription = text

	parsed, err := Parse(text, s.opts)
	if err != nil {
		s.fail(logger, res, "parse_failed", err)
		return err
	}
	res.Parse = parsed
	s.metrics.RecordParse(parsed.Counts())
	logDiagnostics(logger, parsed)

	if s.store == nil {
		err := errors.New("no record store configured")
		s.fail(logger, res, "store_failed", err)
		return err
	}

	saved, err := s.store.SaveRecords(ctx, res.ScanID, parsed.Records)
	if err != nil {
		s.metrics.RecordStoreError()
		err = fmt.Errorf("save records: %w", err)
		s.fail(logger, res, "store_failed", err)
		return err
	}

	res.Saved = saved
	res.Status = ScanCompleted
	res.DurationMS = time.Since(res.StartedAt).Milliseconds()
	s.results.Set(res.ScanID, res, cache.DefaultExpiration)
	s.metrics.RecordScan("ok")

	logger.Info("scan completed",
		"records", len(parsed.Records),
		"saved", saved,
		"skipped", len(parsed.Skipped),
		"rejected", len(parsed.Rejected),
		"duration_ms", res.DurationMS)
	return nil
}

func (s *Service) fail(logger *slog.Logger, res *ScanResult, outcome string, err error) {
	msg := MapError(err)
	res.Status = ScanFailed
	res.Error = msg.Message
	res.ErrorCode = msg.Code
	res.DurationMS = time.Since(res.StartedAt).Milliseconds()
	s.results.Set(res.ScanID, res, cache.DefaultExpiration)
	s.metrics.RecordScan(outcome)

	logger.Warn("scan failed", "outcome", outcome, "code", msg.Code, "error", err)
}

func logDiagnostics(logger *slog.Logger, r *ParseResult) {
	for _, d := range r.Diagnostics {
		level := slog.LevelDebug
		if d.Kind == DiagRowSkipped || d.Kind == DiagRecordRejected {
			level = slog.LevelInfo
		}
		logger.Log(context.Background(), level, d.Message,
			"kind", d.Kind, "row", d.Row, "player", d.Player, "hole", d.Hole)
	}
}
