// Package kafka emits parsed-record batches to the external upsert
// collaborator.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Producer handles Kafka event emission.
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// RecordBatchEvent carries one run's valid records for a record type. The
// upsert collaborator consumes these; invalid counts ride along for
// observability.
type RecordBatchEvent struct {
	RunID        string                  `json:"run_id"`
	SourceFile   string                  `json:"source_file"`
	RecordType   models.RecordType       `json:"record_type"`
	Records      []*models.RecordOptions `json:"records"`
	InvalidCount int                     `json:"invalid_count"`
	Timestamp    time.Time               `json:"timestamp"`
}

// PublishRecordBatch publishes one record batch, keyed by record type so a
// consumer partition sees a type's batches in order.
func (p *Producer) PublishRecordBatch(ctx context.Context, event *RecordBatchEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishRecordBatch")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.RecordType),
		Value: data,
		Headers: []kafka.Header{
			{Key: "run_id", Value: []byte(event.RunID)},
			{Key: "record_type", Value: []byte(event.RecordType)},
			{Key: "source_file", Value: []byte(event.SourceFile)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"record_type": string(event.RecordType),
			"run_id":      event.RunID,
		}).Error("Failed to publish record batch")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"record_type": string(event.RecordType),
		"run_id":      event.RunID,
		"records":     len(event.Records),
	}).Debug("Published record batch")

	return nil
}
