// Package entity provides evaluators for entity identification: entity IDs,
// the person-vs-company heuristic, and attention lines.
package entity

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type EntityIDArguments struct {
	Column string `json:"column" validate:"required"`
	// PreserveSuffixes keeps the trailing period on the listed
	// abbreviations instead of stripping it.
	PreserveSuffixes []string `json:"preserve_suffixes,omitempty"`
}

func NewEntityIDEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[EntityIDArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}

	return &EntityIDEvaluator{key: key, args: parsedArgs}, nil
}

// EntityIDEvaluator cleans the entity-id column into the record's entity id.
type EntityIDEvaluator struct {
	key  string
	args EntityIDArguments
}

func (e *EntityIDEvaluator) Key() string {
	return e.key
}

func (e *EntityIDEvaluator) Columns() []string {
	return []string{e.args.Column}
}

func (e *EntityIDEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	return transforms.Clean(row.Get(e.args.Column), transforms.CleanOptions{
		PreserveSuffixes: e.args.PreserveSuffixes,
	}), nil
}
