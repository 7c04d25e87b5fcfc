// Package processor orchestrates one migration run: ingest a file, run the
// post-processing pipeline, stage the valid records, and hand the batch to
// the upsert collaborator.
package processor

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/items"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/logtrail"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/pipeline"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// RecordStore stages valid records for later search and delete.
type RecordStore interface {
	Insert(ctx context.Context, record *models.RecordOptions) (string, error)
}

// BatchPublisher emits finished batches. Satisfied by the Kafka producer.
type BatchPublisher interface {
	PublishRecordBatch(ctx context.Context, event *kafka.RecordBatchEvent) error
}

// Run describes one migration run: the file, its parse configs, and a
// pipeline config builder receiving the run's SKU resolver.
type Run struct {
	FilePath string
	Configs  []ingest.ParseConfig
	Pipeline func(resolver pipeline.ItemResolver) pipeline.Config
}

// Result summarizes a completed run.
type Result struct {
	RunID   string
	Valid   map[models.RecordType]int
	Invalid map[models.RecordType]int
	Logs    []logtrail.Statement
}

type Processor struct {
	driver      *ingest.Driver
	newResolver func() *items.Resolver
	store       RecordStore
	publisher   BatchPublisher
	trail       *logtrail.Trail
	logger      ectologger.Logger
}

// NewProcessor wires a processor. newResolver is called once per run so the
// resolver's memo stays run-scoped; publisher may be nil when the hand-off
// is disabled.
func NewProcessor(
	driver *ingest.Driver,
	newResolver func() *items.Resolver,
	store RecordStore,
	publisher BatchPublisher,
	trail *logtrail.Trail,
	logger ectologger.Logger,
) *Processor {
	return &Processor{
		driver:      driver,
		newResolver: newResolver,
		store:       store,
		publisher:   publisher,
		trail:       trail,
		logger:      logger,
	}
}

// Execute runs one migration end to end. The in-memory log trail resets at
// the start and its statements are returned with the result.
func (p *Processor) Execute(ctx context.Context, run Run) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "processor.Execute")
	defer span.End()

	p.trail.Reset()
	runID := uuid.New().String()
	p.trail.Audit("run started", run.FilePath)

	parsed, err := p.driver.ParseFile(ctx, run.FilePath, run.Configs)
	if err != nil {
		p.trail.Error("ingest failed", err)
		return nil, err
	}

	resolver := p.newResolver()
	engine := pipeline.NewEngine(run.Pipeline(resolver), p.logger, p.trail)

	outcome, err := engine.Run(ctx, pipeline.RecordSet(parsed))
	if err != nil {
		p.trail.Error("pipeline failed", err)
		return nil, err
	}

	result := &Result{
		RunID:   runID,
		Valid:   make(map[models.RecordType]int),
		Invalid: make(map[models.RecordType]int),
	}

	for recordType, records := range outcome.Valid {
		for _, rec := range records {
			if _, err := p.store.Insert(ctx, rec); err != nil {
				p.logger.WithContext(ctx).WithError(err).WithField("record_type", string(recordType)).Error("failed to stage record")
				p.trail.Error("failed to stage record", err)
			}
		}
		result.Valid[recordType] = len(records)
	}
	for recordType, records := range outcome.Invalid {
		result.Invalid[recordType] = len(records)
	}

	if p.publisher != nil {
		for recordType, records := range outcome.Valid {
			if len(records) == 0 {
				continue
			}
			event := &kafka.RecordBatchEvent{
				RunID:        runID,
				SourceFile:   run.FilePath,
				RecordType:   recordType,
				Records:      records,
				InvalidCount: result.Invalid[recordType],
			}
			if err := p.publisher.PublishRecordBatch(ctx, event); err != nil {
				p.trail.Error("failed to publish record batch", err)
			}
		}
	}

	p.trail.Audit("run finished", runID)
	result.Logs = p.trail.Statements()

	return result, nil
}
