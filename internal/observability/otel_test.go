package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careernav/internal/config"
	appErrors "careernav/internal/errors"
	"careernav/internal/types"
)

func TestGetObservabilityConfig(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		obs := GetObservabilityConfig(nil, "1.2.3")
		assert.Equal(t, "careernav", obs.ServiceName)
		assert.Equal(t, "1.2.3", obs.ServiceVersion)
		assert.True(t, obs.Prometheus.Enabled)
		assert.Equal(t, "/metrics", obs.Prometheus.Endpoint)
	})

	t.Run("service version falls back to app version", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Observability.ServiceName = "svc"
		cfg.Observability.Enabled = true
		cfg.Observability.SampleRate = 0.5

		obs := GetObservabilityConfig(cfg, "dev")
		assert.Equal(t, "svc", obs.ServiceName)
		assert.Equal(t, "dev", obs.ServiceVersion)
		assert.Equal(t, 0.5, obs.SampleRate)
		assert.False(t, obs.Prometheus.Enabled)
	})
}

func TestDisabledManagerIsNoop(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	om.RecordAnalysis(ctx, "cli", &types.AnalysisReport{Score: 50, Grade: "C"}, time.Millisecond, nil)
	om.RecordTaggerCall(ctx, "prose", time.Millisecond, nil)
	om.RecordRateLimitHit(ctx, "/analyze", "POST")

	assert.NotNil(t, om.Tracer("test"))
	assert.NoError(t, om.Shutdown(ctx))
}

func TestEnabledManagerRecordsMetrics(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.CustomMetrics.Analysis.Enabled = true
	cfg.Observability.CustomMetrics.Analysis.TrackDuration = true
	cfg.Observability.CustomMetrics.Analysis.TrackScores = true
	cfg.Observability.CustomMetrics.Tagger.Enabled = true
	cfg.Observability.CustomMetrics.Infrastructure.Enabled = true
	cfg.Observability.CustomMetrics.Infrastructure.TrackRateLimits = true

	om, err := NewObservabilityManager(ObservabilityConfig{
		ServiceName:    "careernav-test",
		ServiceVersion: "test",
		Enabled:        true,
		SampleRate:     1.0,
	}, cfg)
	require.NoError(t, err)

	metrics := om.GetMetrics()
	require.NotNil(t, metrics.ResumesAnalyzed)
	require.NotNil(t, metrics.TaggerRequests)
	require.NotNil(t, metrics.RateLimitHits)

	ctx := context.Background()
	om.RecordAnalysis(ctx, "http", &types.AnalysisReport{Score: 46, Grade: "D"}, 20*time.Millisecond, nil)
	om.RecordAnalysis(ctx, "http", nil, time.Millisecond,
		appErrors.NewExtractionError(appErrors.ErrCodeExtractionFailed, "bad pdf", nil))
	om.RecordTaggerCall(ctx, "gemini", time.Second, errors.New("timeout"))
	om.RecordRateLimitHit(ctx, "/analyze", "POST")

	assert.NoError(t, om.Shutdown(ctx))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       string
		extraction bool
	}{
		{"extraction", appErrors.NewExtractionError(appErrors.ErrCodeExtractionFailed, "x", nil), appErrors.ErrCodeExtractionFailed, true},
		{"unsupported", appErrors.NewValidationError(appErrors.ErrCodeUnsupportedFormat, "x", nil), appErrors.ErrCodeUnsupportedFormat, true},
		{"empty", appErrors.NewValidationError(appErrors.ErrCodeEmptyInput, "x", nil), appErrors.ErrCodeEmptyInput, false},
		{"plain", errors.New("x"), "UNKNOWN", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, errorCode(tt.err))
			assert.Equal(t, tt.extraction, isExtractionError(tt.err))
		})
	}
}
