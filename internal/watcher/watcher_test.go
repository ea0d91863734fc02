package watcher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careernav/internal/config"
	appErrors "careernav/internal/errors"
	"careernav/internal/types"
)

type fakeAnalyzer struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeAnalyzer) AnalyzeDocument(_ context.Context, source string, data []byte, filename, _ string) (types.AnalysisReport, error) {
	f.mu.Lock()
	f.calls = append(f.calls, source+":"+filename)
	f.mu.Unlock()

	if strings.TrimSpace(string(data)) == "" {
		return types.AnalysisReport{}, appErrors.NewExtractionError(appErrors.ErrCodeEmptyInput, "No text content found in the file", nil)
	}
	return types.AnalysisReport{Score: 46, Grade: "D", Skills: []string{"python"}, Suggestions: []string{}}, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestWatcher(t *testing.T, cfg config.WatchConfig, analyzer DocumentAnalyzer) *Watcher {
	t.Helper()
	logger, err := appErrors.New("error")
	require.NoError(t, err)
	return New(cfg, "json", analyzer, logger)
}

func TestShouldProcessEvent(t *testing.T) {
	w := newTestWatcher(t, config.WatchConfig{Dir: t.TempDir()}, &fakeAnalyzer{})

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create txt", fsnotify.Event{Name: "/in/jane.txt", Op: fsnotify.Create}, true},
		{"write pdf", fsnotify.Event{Name: "/in/jane.pdf", Op: fsnotify.Write}, true},
		{"write docx upper case", fsnotify.Event{Name: "/in/JANE.DOCX", Op: fsnotify.Write}, true},
		{"chmod only", fsnotify.Event{Name: "/in/jane.txt", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/in/jane.txt", Op: fsnotify.Remove}, false},
		{"own report", fsnotify.Event{Name: "/in/jane.report.json", Op: fsnotify.Create}, false},
		{"own text report", fsnotify.Event{Name: "/in/jane.report.txt", Op: fsnotify.Create}, false},
		{"unsupported", fsnotify.Event{Name: "/in/photo.png", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.shouldProcessEvent(tt.event))
		})
	}
}

func TestProcessFileWritesReport(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "reports")
	resume := filepath.Join(dir, "jane.txt")
	require.NoError(t, os.WriteFile(resume, []byte("Skills: Python"), 0o600))

	analyzer := &fakeAnalyzer{}
	w := newTestWatcher(t, config.WatchConfig{Dir: dir, OutputDir: outDir}, analyzer)

	require.NoError(t, w.processFile(context.Background(), resume))

	data, err := os.ReadFile(filepath.Join(outDir, "jane.report.json"))
	require.NoError(t, err)
	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 46, report.Score)
	assert.Equal(t, []string{"watcher:jane.txt"}, analyzer.calls)
}

func TestProcessFileErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("   "), 0o600))

	w := newTestWatcher(t, config.WatchConfig{Dir: dir}, &fakeAnalyzer{})

	err := w.processFile(context.Background(), filepath.Join(dir, "gone.txt"))
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeFileNotFound))

	err = w.processFile(context.Background(), empty)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeEmptyInput))
	assert.NoFileExists(t, filepath.Join(dir, "empty.report.json"))
}

func TestScheduleDebounces(t *testing.T) {
	w := newTestWatcher(t, config.WatchConfig{Dir: t.TempDir(), DebounceDelay: 30 * time.Millisecond}, &fakeAnalyzer{})

	for range 5 {
		w.schedule("/in/jane.txt")
	}

	select {
	case path := <-w.pending:
		assert.Equal(t, "/in/jane.txt", path)
	case <-time.After(time.Second):
		t.Fatal("debounced path was never delivered")
	}

	select {
	case path := <-w.pending:
		t.Fatalf("unexpected second delivery for %s", path)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelDropsPendingFile(t *testing.T) {
	w := newTestWatcher(t, config.WatchConfig{Dir: t.TempDir(), DebounceDelay: 20 * time.Millisecond}, &fakeAnalyzer{})

	w.schedule("/in/jane.txt")
	w.handleEvent(fsnotify.Event{Name: "/in/jane.txt", Op: fsnotify.Remove})

	select {
	case path := <-w.pending:
		t.Fatalf("removed file %s was still delivered", path)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestRunAnalyzesNewFiles(t *testing.T) {
	dir := t.TempDir()
	analyzer := &fakeAnalyzer{}
	w := newTestWatcher(t, config.WatchConfig{Dir: dir, DebounceDelay: 50 * time.Millisecond}, analyzer)

	processed := make(chan string, 4)
	w.onProcessed = func(path string, err error) {
		if err == nil {
			processed <- path
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never became ready")
	}

	resume := filepath.Join(dir, "jane.txt")
	require.NoError(t, os.WriteFile(resume, []byte("Skills: Python"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.png"), []byte("png"), 0o600))

	select {
	case path := <-processed:
		assert.Equal(t, resume, path)
	case <-time.After(3 * time.Second):
		t.Fatal("resume was not processed")
	}
	assert.FileExists(t, filepath.Join(dir, "jane.report.json"))

	// The report written above must not be analyzed in turn
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, analyzer.callCount())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunRejectsBadDirectory(t *testing.T) {
	missing := newTestWatcher(t, config.WatchConfig{Dir: filepath.Join(t.TempDir(), "nope")}, &fakeAnalyzer{})
	err := missing.Run(context.Background())
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeFileNotFound))

	file := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	notDir := newTestWatcher(t, config.WatchConfig{Dir: file}, &fakeAnalyzer{})
	err = notDir.Run(context.Background())
	assert.True(t, appErrors.HasCode(err, "INVALID_WATCH_DIR"))
}
