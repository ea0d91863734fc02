package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"careernav/internal/config"
	"careernav/internal/types"
)

// ResultPublisher delivers processed job results
type ResultPublisher interface {
	PublishResult(ctx context.Context, result types.AnalysisResult) error
}

// AMQPBroker owns the RabbitMQ connection used to consume jobs and publish
// results
type AMQPBroker struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	exchange string

	// amqp.Channel is not safe for concurrent publishing
	mu sync.Mutex
}

// DialAMQP connects to RabbitMQ and declares the durable job queue and the
// topic exchange results are published to
func DialAMQP(cfg config.WorkerConfig) (*AMQPBroker, error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error opening rabbitmq channel: %w", err)
	}

	broker := &AMQPBroker{conn: conn, ch: ch, queue: cfg.Queue, exchange: cfg.ResultExchange}

	if _, err := ch.QueueDeclare(
		cfg.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}

	if err := ch.ExchangeDeclare(
		cfg.ResultExchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.ResultExchange, err)
	}

	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	return broker, nil
}

// Consume starts delivery of job messages with manual acknowledgement
func (b *AMQPBroker) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	deliveries, err := b.ch.Consume(
		b.queue,
		consumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("error consuming from %s: %w", b.queue, err)
	}
	return deliveries, nil
}

// PublishResult sends result to the exchange with routing key analysis.<job_id>
func (b *AMQPBroker) PublishResult(_ context.Context, result types.AnalysisResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.ch.Publish(
		b.exchange,
		RoutingKey(result.JobID),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    result.JobID,
			Timestamp:    result.Timestamp,
			Body:         body,
		},
	)
}

// Close shuts the channel and connection
func (b *AMQPBroker) Close() error {
	var firstErr error
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RoutingKey is the topic a job's result is published under
func RoutingKey(jobID string) string {
	return "analysis." + jobID
}
