// Package watcher analyzes resumes dropped into an inbox directory and writes
// a report file next to each one.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"careernav/internal/analysis"
	"careernav/internal/common"
	"careernav/internal/config"
	"careernav/internal/errors"
	"careernav/internal/types"
	"careernav/internal/utils"
)

const defaultDebounceDelay = 500 * time.Millisecond

// DocumentAnalyzer scores one resume document
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, source string, data []byte, filename, contentType string) (types.AnalysisReport, error)
}

// Watcher watches one directory for new or rewritten resume files
type Watcher struct {
	mu sync.Mutex

	dir           string
	outputDir     string
	format        string
	debounceDelay time.Duration

	analyzer DocumentAnalyzer
	output   *common.OutputHandler
	files    *common.FileProcessor
	logger   *errors.Logger

	// One pending timer per file; a new event for the file restarts it
	timers  map[string]*time.Timer
	pending chan string
	ready   chan struct{}
	done    chan struct{}

	// Called after each processed file, nil error on success
	onProcessed func(path string, err error)
}

// New creates a watcher for cfg.Dir writing reports in format
func New(cfg config.WatchConfig, format string, analyzer DocumentAnalyzer, logger *errors.Logger) *Watcher {
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = defaultDebounceDelay
	}

	return &Watcher{
		dir:           cfg.Dir,
		outputDir:     cfg.OutputDir,
		format:        format,
		debounceDelay: delay,
		analyzer:      analyzer,
		output:        common.NewOutputHandler(logger),
		files:         common.NewFileProcessor(logger),
		logger:        logger,
		timers:        make(map[string]*time.Timer),
		pending:       make(chan string, 64),
		ready:         make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Ready is closed once the directory is being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the directory until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("Watch directory not found: %s", w.dir), err)
	}
	if !info.IsDir() {
		return errors.NewValidationError("INVALID_WATCH_DIR",
			fmt.Sprintf("Watch path is not a directory: %s", w.dir), nil)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := fsWatcher.Close(); closeErr != nil {
			w.logger.LogError(closeErr, "Failed to close file system watcher")
		}
	}()

	if err := fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}
	close(w.ready)
	defer close(w.done)

	w.logger.Info("Inbox watcher started",
		"dir", w.dir,
		"output_dir", w.outputDir,
		"format", w.format,
		"debounce_delay", w.debounceDelay)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			w.logger.Info("Inbox watcher stopped")
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.handleEvent(event)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.logger.LogError(err, "File watcher error")

		case path := <-w.pending:
			err := w.processFile(ctx, path)
			if err != nil {
				w.logger.LogError(err, "Failed to analyze resume", "file", path)
			}
			if w.onProcessed != nil {
				w.onProcessed(path, err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.cancel(event.Name)
		return
	}
	if w.shouldProcessEvent(event) {
		w.schedule(event.Name)
	}
}

// shouldProcessEvent accepts writes and creates of supported resume files,
// skipping the reports this watcher writes itself
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if utils.IsReportFile(event.Name) {
		return false
	}
	return utils.IsResumeFile(event.Name)
}

// schedule restarts the debounce timer for path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounceDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.pending <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// processFile analyzes path and writes its report
func (w *Watcher) processFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("File disappeared before analysis: %s", path), err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	data, err := w.files.ReadFile(path)
	if err != nil {
		return err
	}

	report, err := w.analyzer.AnalyzeDocument(ctx, analysis.SourceWatcher, data, filepath.Base(path), "")
	if err != nil {
		return err
	}

	rendered, err := w.output.Render(report, w.format)
	if err != nil {
		return err
	}

	reportPath := utils.ReportPath(path, w.outputDir, w.format)
	if err := w.files.WriteFile(reportPath, rendered); err != nil {
		return err
	}

	w.logger.Info("Resume report written",
		"file", path,
		"report", reportPath,
		"score", report.Score,
		"grade", report.Grade)
	return nil
}
