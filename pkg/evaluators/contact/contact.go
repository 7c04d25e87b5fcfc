// Package contact provides phone and email evaluators. A source column may
// hold several values in free text; the main column's match index lets
// multiple output fields draw distinct values from one crowded cell.
package contact

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type ContactArguments struct {
	Column string `json:"column" validate:"required"`
	// MatchIndex selects which regex match to take from the main column.
	// Fallback columns always use match 0.
	MatchIndex int      `json:"match_index,omitempty" validate:"min=0"`
	Fallbacks  []string `json:"fallbacks,omitempty"`
}

type extractFunc func(string) []string

func newContactFactory(extract extractFunc) registry.Factory {
	return func(key string, args any) (registry.Evaluator, error) {
		parsedArgs, err := utils.ValidateArguments[ContactArguments](args)
		if err != nil {
			return nil, errors.WrapParseError(err).AddEvaluator(key)
		}

		return &ContactEvaluator{key: key, args: parsedArgs, extract: extract}, nil
	}
}

var (
	NewPhoneEvaluator = newContactFactory(transforms.ExtractPhone)
	NewEmailEvaluator = newContactFactory(transforms.ExtractEmail)
)

type ContactEvaluator struct {
	key     string
	args    ContactArguments
	extract extractFunc
}

func (e *ContactEvaluator) Key() string {
	return e.key
}

func (e *ContactEvaluator) Columns() []string {
	return append([]string{e.args.Column}, e.args.Fallbacks...)
}

func (e *ContactEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	if matches := e.extract(row.Get(e.args.Column)); e.args.MatchIndex < len(matches) {
		return matches[e.args.MatchIndex], nil
	}

	for _, column := range e.args.Fallbacks {
		if matches := e.extract(row.Get(column)); len(matches) > 0 {
			return matches[0], nil
		}
	}

	return "", nil
}
