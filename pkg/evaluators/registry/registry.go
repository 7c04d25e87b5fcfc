// Package registry holds the evaluator factory registry the parse
// interpreter resolves evaluator keys against.
package registry

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Evaluator derives one field value from a row. Implementations are
// constructed once per parse definition (arguments are compile-time
// configuration) and must be safe to reuse across rows.
//
// Evaluate reports problems through its error return; it must not panic.
// The interpreter treats an error as "no value produced" for that field
// and keeps going.
type Evaluator interface {
	Key() string
	// Columns lists the source columns the evaluator reads, primary first.
	// Used for eager column validation and value-mapping overrides.
	Columns() []string
	Evaluate(ctx context.Context, row models.Row) (models.FieldValue, error)
}

// Factory builds an Evaluator from its registry key and the argument bundle
// found in the parse definition.
type Factory func(key string, args any) (Evaluator, error)

// Evaluators is the global factory registry, populated by
// evaluators.RegisterAll.
var Evaluators = map[string]Factory{}

// GetEvaluator constructs an evaluator for the given key and arguments.
func GetEvaluator(key string, args any) (Evaluator, error) {
	factory, ok := Evaluators[key]
	if !ok {
		return nil, errors.NewParseError("evaluator not found").AddEvaluator(key)
	}
	return factory(key, args)
}

// LineEvaluator computes an identity string for a produced sublist line.
type LineEvaluator interface {
	Key() string
	EvaluateLine(line models.FieldDictionary) (string, error)
}

// LineFactory builds a LineEvaluator from its key and arguments.
type LineFactory func(key string, args any) (LineEvaluator, error)

// LineEvaluators is the registry of line-identity evaluators.
var LineEvaluators = map[string]LineFactory{}

// GetLineEvaluator constructs a line evaluator for the given key.
func GetLineEvaluator(key string, args any) (LineEvaluator, error) {
	factory, ok := LineEvaluators[key]
	if !ok {
		return nil, errors.NewParseError("line evaluator not found").AddEvaluator(key)
	}
	return factory(key, args)
}
