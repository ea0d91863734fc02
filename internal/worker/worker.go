// Package worker consumes resume analysis jobs from RabbitMQ, downloads the
// referenced document from object storage and publishes the report.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"careernav/internal/analysis"
	"careernav/internal/config"
	"careernav/internal/errors"
	"careernav/internal/types"
)

// DocumentAnalyzer scores one resume document
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, source string, data []byte, filename, contentType string) (types.AnalysisReport, error)
}

// Worker turns job messages into published results
type Worker struct {
	cfg       config.WorkerConfig
	analyzer  DocumentAnalyzer
	store     ObjectStore
	publisher ResultPublisher
	validate  *validator.Validate
	logger    *errors.Logger
	now       func() time.Time
}

// New creates a worker
func New(cfg config.WorkerConfig, analyzer DocumentAnalyzer, store ObjectStore, publisher ResultPublisher, logger *errors.Logger) *Worker {
	return &Worker{
		cfg:       cfg,
		analyzer:  analyzer,
		store:     store,
		publisher: publisher,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Run processes deliveries with cfg.Concurrency handlers until ctx is
// cancelled or the delivery channel closes. A message is acked once its
// result is published and requeued when publishing keeps failing.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	concurrency := max(w.cfg.Concurrency, 1)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := range concurrency {
		go func() {
			defer wg.Done()
			w.logger.Info("Worker started", "worker_id", i+1)
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					w.handleDelivery(ctx, d)
				}
			}
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("delivery channel closed")
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	if err := w.Handle(ctx, d.Body); err != nil {
		w.logger.LogError(err, "Failed to publish job result, requeueing", "delivery_tag", d.DeliveryTag)
		if nackErr := d.Nack(false, true); nackErr != nil {
			w.logger.LogError(nackErr, "Failed to nack message")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		w.logger.LogError(err, "Failed to ack message")
	}
}

// Handle processes one message body and publishes its result. Only a
// publishing failure is returned; job failures are reported in the result.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	result := w.Process(ctx, body)

	_, err := retry(ctx, w.attempts(), w.cfg.RetryDelay, func() (struct{}, error) {
		return struct{}{}, w.publisher.PublishResult(ctx, result)
	})
	if err != nil {
		return fmt.Errorf("failed to publish result for job %s: %w", result.JobID, err)
	}

	w.logger.Info("Job result published",
		"job_id", result.JobID,
		"status", result.Status,
		"routing_key", RoutingKey(result.JobID))
	return nil
}

// Process decodes, validates and analyzes one job
func (w *Worker) Process(ctx context.Context, body []byte) types.AnalysisResult {
	ctx, span := otel.Tracer("careernav.worker").Start(ctx, "worker.process")
	defer span.End()

	var job types.AnalysisJob
	if err := json.Unmarshal(body, &job); err != nil {
		return w.failed(job.JobID, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Malformed job message", err))
	}
	span.SetAttributes(attribute.String("job.id", job.JobID))

	if err := w.validate.Struct(job); err != nil {
		return w.failed(job.JobID, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid job message: %v", err), err))
	}

	w.logger.Info("Processing job", "job_id", job.JobID, "bucket", job.Bucket, "key", job.Key)

	data, err := retry(ctx, w.attempts(), w.cfg.RetryDelay, func() ([]byte, error) {
		return w.store.Download(ctx, job.Bucket, job.Key)
	})
	if err != nil {
		span.RecordError(err)
		return w.failed(job.JobID, errors.NewNetworkError(errors.ErrCodeFileNotReadable,
			"File download error", err).WithContext("key", job.Key))
	}

	filename := job.Filename
	if filename == "" {
		filename = path.Base(job.Key)
	}

	report, err := w.analyzer.AnalyzeDocument(ctx, analysis.SourceWorker, data, filename, job.ContentType)
	if err != nil {
		span.RecordError(err)
		return w.failed(job.JobID, err)
	}

	if err := types.ValidateReport(&report); err != nil {
		span.RecordError(err)
		return w.failed(job.JobID, errors.NewInternalError(errors.ErrCodeReportInvalid,
			"Report failed schema validation", err))
	}

	span.SetAttributes(attribute.Int("report.score", report.Score))
	return types.AnalysisResult{
		JobID:     job.JobID,
		Status:    types.JobStatusCompleted,
		Report:    &report,
		Timestamp: w.now().UTC(),
	}
}

func (w *Worker) failed(jobID string, err error) types.AnalysisResult {
	w.logger.LogError(err, "Job failed", "job_id", jobID)

	result := types.AnalysisResult{
		JobID:     jobID,
		Status:    types.JobStatusFailed,
		Error:     err.Error(),
		Timestamp: w.now().UTC(),
	}
	if appErr, ok := errors.AsAppError(err); ok {
		result.ErrorCode = appErr.Code
		result.Error = appErr.Message
	}
	return result
}

func (w *Worker) attempts() int {
	return max(w.cfg.MaxRetries, 1)
}

// retry calls fn up to attempts times, waiting delay*(attempt) between tries
func retry[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := range attempts {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
