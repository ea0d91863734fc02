package cli

import (
	"fmt"

	"careernav/internal/worker"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume resume analysis jobs from RabbitMQ",
	Long: `Run a queue worker. Each job message names an object in S3-compatible
storage:

  {"job_id": "<uuid>", "bucket": "resumes", "key": "uploads/jane.pdf"}

The worker downloads the object, analyzes it and publishes the result to the
configured topic exchange with routing key analysis.<job_id>.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().String("amqp-url", "", "RabbitMQ URL (overrides config)")
	workerCmd.Flags().String("queue", "", "Job queue name (overrides config)")
	workerCmd.Flags().Int("concurrency", 0, "Number of jobs processed in parallel (overrides config)")
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	ctx := cmd.Context()

	overrideString(cmd, "amqp-url", &cfg.Worker.AMQPURL)
	overrideString(cmd, "queue", &cfg.Worker.Queue)
	overrideInt(cmd, "concurrency", &cfg.Worker.Concurrency)

	service, om, err := newAnalysisService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownObservability(om, logger)

	store, err := worker.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}

	broker, err := worker.DialAMQP(cfg.Worker)
	if err != nil {
		return err
	}
	defer func() {
		if err := broker.Close(); err != nil {
			logger.LogError(err, "Failed to close RabbitMQ connection")
		}
	}()

	consumerTag := "careernav-" + uuid.NewString()
	deliveries, err := broker.Consume(consumerTag)
	if err != nil {
		return err
	}

	logger.Info("Worker consuming jobs",
		"queue", cfg.Worker.Queue,
		"exchange", cfg.Worker.ResultExchange,
		"concurrency", cfg.Worker.Concurrency,
		"consumer_tag", consumerTag)

	return worker.New(cfg.Worker, service, store, broker, logger).Run(ctx, deliveries)
}
