// Package kafka provides the message-queue plumbing for the scan
// pipeline and the application event stream.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"assistant-go/internal/config"
	"assistant-go/pkg/database"
	"assistant-go/pkg/events"
	"assistant-go/pkg/log"
	"assistant-go/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// ScanProcessor defines the interface for any service that can process a
// scan task. This decouples the consumer from the concrete pipeline.
type ScanProcessor interface {
	Process(ctx context.Context, task tasks.ScanProcessingTask) error
}

var (
	scanProducer  *kafka.Writer
	eventProducer *kafka.Writer
)

// InitProducers initialises the Kafka writers for the scan topic and the
// event topic.
func InitProducers(cfg config.KafkaConfig) {
	scanProducer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.ScanTopic,
		Balancer: &kafka.LeastBytes{},
	}
	eventProducer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.EventTopic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka producers initialised")
}

// ProduceScanTask sends a scan processing task to the scan topic.
func ProduceScanTask(task tasks.ScanProcessingTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return scanProducer.WriteMessages(context.Background(),
		kafka.Message{Value: taskBytes},
	)
}

// EventEmitter publishes application events to the event topic. Publish
// failures are logged and dropped; the event stream is best effort.
type EventEmitter struct{}

// NewEventEmitter returns an events.Emitter backed by the event topic.
func NewEventEmitter() *EventEmitter {
	return &EventEmitter{}
}

// Emit implements events.Emitter.
func (e *EventEmitter) Emit(ctx context.Context, ev events.Event) {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("failed to marshal event: %v", err)
		return
	}
	if err := eventProducer.WriteMessages(ctx, kafka.Message{Value: evBytes}); err != nil {
		log.Errorf("failed to publish event to Kafka: %v", err)
	}
}

// StartConsumer runs a Kafka consumer loop that hands scan tasks to the
// processor. Failed tasks are retried up to three times, tracked via a
// Redis counter, before their offset is committed and the task dropped.
func StartConsumer(cfg config.KafkaConfig, processor ScanProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.ScanTopic,
		GroupID:  "assistant-scan-consumer",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})

	log.Infof("Kafka consumer started, listening on topic '%s'", cfg.ScanTopic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("failed to read message from Kafka", err)
			break
		}

		var task tasks.ScanProcessingTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("cannot parse Kafka message: %v, value: %s", err, string(m.Value))
			// Malformed message, commit so it does not block the queue.
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("failed to commit malformed message: %v", err)
			}
			continue
		}

		log.Infof("processing scan task: item=%d file=%s", task.ItemID, task.FileName)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("scan task failed: item=%d, error: %v", task.ItemID, err)
			attemptsKey := fmt.Sprintf("kafka:attempts:scan:%d", task.ItemID)
			attempts, incErr := database.RDB.Incr(context.Background(), attemptsKey).Result()
			if incErr == nil {
				_ = database.RDB.Expire(context.Background(), attemptsKey, 24*time.Hour).Err()
			}
			if incErr != nil {
				// Redis unavailable: leave the offset uncommitted so
				// Kafka redelivers.
				continue
			}
			if attempts >= 3 {
				log.Errorf("scan task failed %d times, committing offset: item=%d", attempts, task.ItemID)
				if err := r.CommitMessages(context.Background(), m); err != nil {
					log.Errorf("failed to commit Kafka offset: %v", err)
				}
			}
		} else {
			_ = database.RDB.Del(context.Background(), fmt.Sprintf("kafka:attempts:scan:%d", task.ItemID)).Err()
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("failed to commit Kafka offset: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("failed to close Kafka consumer: %v", err)
	}
}
