// Package analysis wires text extraction and the scoring engine into the
// single entry point shared by the CLI, HTTP server, queue worker and inbox
// watcher.
package analysis

import (
	"context"
	"fmt"
	"time"

	"careernav/internal/catalog"
	"careernav/internal/config"
	"careernav/internal/errors"
	"careernav/internal/extract"
	"careernav/internal/nlp"
	"careernav/internal/scoring"
	"careernav/internal/types"
)

// Analysis sources, used as a metric attribute
const (
	SourceCLI     = "cli"
	SourceHTTP    = "http"
	SourceWorker  = "worker"
	SourceWatcher = "watcher"
)

// Recorder receives analysis outcomes. A nil Recorder disables recording.
type Recorder interface {
	RecordAnalysis(ctx context.Context, source string, report *types.AnalysisReport, duration time.Duration, err error)
	RecordTaggerCall(ctx context.Context, provider string, duration time.Duration, err error)
}

// Service extracts and scores resumes
type Service struct {
	engine      *scoring.Engine
	extractor   *extract.Extractor
	tagger      nlp.Tagger
	recorder    Recorder
	stats       *Stats
	maxFileSize int64
	logger      *errors.Logger
}

// NewService loads the skill catalog, builds the configured tagger and
// returns a ready service. recorder may be nil.
func NewService(ctx context.Context, cfg *config.Config, recorder Recorder, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing analysis service",
		"catalog_file", cfg.Scoring.CatalogFile,
		"nlp_provider", cfg.NLP.Provider,
		"max_file_size", cfg.App.MaxFileSize)

	cat, err := catalog.LoadFile(cfg.Scoring.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill catalog: %w", err)
	}

	tagger, err := nlp.New(ctx, &cfg.NLP, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create tagger: %w", err)
	}

	return newService(cat, tagger, recorder, cfg.App.MaxFileSize, logger), nil
}

func newService(cat *catalog.Catalog, tagger nlp.Tagger, recorder Recorder, maxFileSize int64, logger *errors.Logger) *Service {
	engineTagger := tagger
	if tagger != nil && recorder != nil {
		engineTagger = &instrumentedTagger{Tagger: tagger, recorder: recorder}
	}

	return &Service{
		engine:      scoring.NewEngine(cat, engineTagger, logger),
		extractor:   extract.NewExtractor(logger),
		tagger:      tagger,
		recorder:    recorder,
		stats:       &Stats{},
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// AnalyzeText scores already extracted text
func (s *Service) AnalyzeText(ctx context.Context, source, text string) (types.AnalysisReport, error) {
	start := time.Now()
	report, err := s.engine.Analyze(ctx, text)
	s.record(ctx, source, report, time.Since(start), err)
	return report, err
}

// AnalyzeDocument extracts text from a document and scores it. The format is
// detected from filename with contentType as fallback.
func (s *Service) AnalyzeDocument(ctx context.Context, source string, data []byte, filename, contentType string) (types.AnalysisReport, error) {
	start := time.Now()

	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		err := errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File exceeds maximum size of %d bytes", s.maxFileSize), nil).
			WithContext("file", filename).
			WithContext("size", len(data))
		s.record(ctx, source, types.AnalysisReport{}, time.Since(start), err)
		return types.AnalysisReport{}, err
	}

	text, err := s.extractor.ExtractFile(ctx, data, filename, contentType)
	if err != nil {
		s.record(ctx, source, types.AnalysisReport{}, time.Since(start), err)
		return types.AnalysisReport{}, err
	}

	report, err := s.engine.Analyze(ctx, text)
	s.record(ctx, source, report, time.Since(start), err)
	return report, err
}

func (s *Service) record(ctx context.Context, source string, report types.AnalysisReport, duration time.Duration, err error) {
	if err != nil {
		s.stats.recordFailure()
		s.logger.Debug("Resume analysis failed",
			"source", source,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error())
	} else {
		s.stats.recordSuccess(report.Score)
		s.logger.Debug("Resume analyzed",
			"source", source,
			"score", report.Score,
			"skills", len(report.Skills),
			"duration_ms", duration.Milliseconds())
	}

	if s.recorder == nil {
		return
	}
	if err != nil {
		s.recorder.RecordAnalysis(ctx, source, nil, duration, err)
		return
	}
	s.recorder.RecordAnalysis(ctx, source, &report, duration, nil)
}

// Stats returns a snapshot of the counters collected since start
func (s *Service) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

// TaggerName names the configured tagger, "none" when detection is
// catalog-only
func (s *Service) TaggerName() string {
	return nlp.TaggerName(s.tagger)
}

// NLPLoaded reports whether a part-of-speech tagger is in use
func (s *Service) NLPLoaded() bool {
	return s.tagger != nil
}

// TaggerHealth returns circuit breaker details for remote taggers, nil
// otherwise
func (s *Service) TaggerHealth() map[string]any {
	reporter, ok := s.tagger.(nlp.HealthReporter)
	if !ok {
		return nil
	}
	health := reporter.GetStats()
	health["healthy"] = reporter.IsHealthy()
	return health
}

// Catalog returns the skill catalog in use
func (s *Service) Catalog() *catalog.Catalog {
	return s.engine.Catalog()
}
