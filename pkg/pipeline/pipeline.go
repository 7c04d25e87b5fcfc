// Package pipeline runs the post-parse operations (clone, compose, prune)
// over parsed records and partitions them into valid and invalid sets.
package pipeline

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/logtrail"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type Operation string

const (
	OpClone   Operation = "clone"
	OpCompose Operation = "compose"
	OpPrune   Operation = "prune"
)

// DefaultOrder runs clone first so composed and pruned records see
// donor-copied data, then compose, then prune.
var DefaultOrder = []Operation{OpClone, OpCompose, OpPrune}

// RecordSet groups records by record type, mutated in place by operations.
type RecordSet map[models.RecordType][]*models.RecordOptions

// CloneRule copies fields and whole sublists from a donor record to a
// recipient record of a different type, matched by a shared natural key.
type CloneRule struct {
	Donor      models.RecordType `json:"donor" validate:"required"`
	Recipient  models.RecordType `json:"recipient" validate:"required"`
	MatchField string            `json:"match_field" validate:"required"`
	Fields     []string          `json:"fields,omitempty"`
	Sublists   []string          `json:"sublists,omitempty"`
}

// ComposeFunc mutates one record: deriving identification search options,
// resolving sublist line references, coercing numeric policy. An error marks
// the record composed-with-problems but does not remove it; prune decides.
type ComposeFunc func(ctx context.Context, record *models.RecordOptions) error

// PruneFunc validates and possibly mutates one record. Returning nil rejects
// the record into the invalid partition.
type PruneFunc func(ctx context.Context, record *models.RecordOptions) *models.RecordOptions

// Config declares the operations for one run. Operations not configured for
// a record type are skipped for that type.
type Config struct {
	// Order defaults to DefaultOrder when empty.
	Order   []Operation
	Clones  []CloneRule
	Compose map[models.RecordType]ComposeFunc
	Prune   map[models.RecordType]PruneFunc
}

// Result is the final partition. Records absent from Prune's config pass
// through to Valid unchanged.
type Result struct {
	Valid   RecordSet
	Invalid RecordSet
}

type Engine struct {
	config Config
	logger ectologger.Logger
	trail  *logtrail.Trail
}

func NewEngine(config Config, logger ectologger.Logger, trail *logtrail.Trail) *Engine {
	if len(config.Order) == 0 {
		config.Order = DefaultOrder
	}
	return &Engine{config: config, logger: logger, trail: trail}
}

// Run executes the configured operations in order and returns the partition.
// The input set is mutated in place.
func (e *Engine) Run(ctx context.Context, records RecordSet) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	result := &Result{
		Valid:   make(RecordSet, len(records)),
		Invalid: make(RecordSet),
	}

	pruned := false
	for _, operation := range e.config.Order {
		switch operation {
		case OpClone:
			e.runClone(ctx, records)
		case OpCompose:
			e.runCompose(ctx, records)
		case OpPrune:
			e.runPrune(ctx, records, result)
			pruned = true
		default:
			return nil, errors.NewParseErrorf("unknown pipeline operation %q", operation)
		}
	}

	// Without a prune pass everything that survived is valid.
	if !pruned {
		for recordType, list := range records {
			result.Valid[recordType] = list
		}
		return result, nil
	}

	return result, nil
}

func (e *Engine) runClone(ctx context.Context, records RecordSet) {
	for _, rule := range e.config.Clones {
		donors := records[rule.Donor]
		recipients := records[rule.Recipient]
		if len(donors) == 0 || len(recipients) == 0 {
			continue
		}

		donorsByKey := make(map[string]*models.RecordOptions, len(donors))
		for _, donor := range donors {
			if key := donor.GetString(rule.MatchField); key != "" {
				donorsByKey[key] = donor
			}
		}

		for _, recipient := range recipients {
			key := recipient.GetString(rule.MatchField)
			donor, ok := donorsByKey[key]
			if !ok {
				continue
			}
			cloneInto(donor, recipient, rule)
		}
	}
}

// cloneInto copies the rule's fields and sublists from donor to recipient.
// Fields already present on the recipient are left alone; sublists are
// replaced wholesale. Provenance merges so the recipient traces back to the
// donor's source rows too.
func cloneInto(donor, recipient *models.RecordOptions, rule CloneRule) {
	for _, fieldID := range rule.Fields {
		if recipient.HasField(fieldID) {
			continue
		}
		if value, ok := donor.Fields[fieldID]; ok {
			recipient.Fields[fieldID] = value
		}
	}

	for _, sublistID := range rule.Sublists {
		lines, ok := donor.Sublists[sublistID]
		if !ok {
			continue
		}
		copied := make([]models.SublistLine, len(lines))
		copy(copied, lines)
		if recipient.Sublists == nil {
			recipient.Sublists = make(models.SublistDictionary)
		}
		recipient.Sublists[sublistID] = copied
	}

	recipient.AddSource(donor.Meta.DataSource...)
}

func (e *Engine) runCompose(ctx context.Context, records RecordSet) {
	for recordType, composeFunc := range e.config.Compose {
		for _, record := range records[recordType] {
			if err := composeFunc(ctx, record); err != nil {
				e.logger.WithContext(ctx).
					WithError(err).
					WithField("record_type", string(recordType)).
					Warn("compose failed for record, continuing")
				if e.trail != nil {
					e.trail.Error("compose failed", err)
				}
			}
		}
	}
}

func (e *Engine) runPrune(ctx context.Context, records RecordSet, result *Result) {
	for recordType, list := range records {
		pruneFunc, ok := e.config.Prune[recordType]
		if !ok {
			result.Valid[recordType] = append(result.Valid[recordType], list...)
			records[recordType] = nil
			continue
		}

		for _, record := range list {
			kept := pruneFunc(ctx, record)
			if kept == nil {
				result.Invalid[recordType] = append(result.Invalid[recordType], record)
				if e.trail != nil {
					e.trail.Audit("record rejected by prune", record.Meta)
				}
				continue
			}
			result.Valid[recordType] = append(result.Valid[recordType], kept)
		}
		records[recordType] = nil
	}
}
