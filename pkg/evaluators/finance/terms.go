// Package finance provides evaluators for payment terms and monetary fields.
package finance

import (
	"context"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type TermsArguments struct {
	Column string `json:"column" validate:"required"`
	// Terms maps a payment term label (e.g. "Net 30") to its internal id.
	Terms map[string]int64 `json:"terms" validate:"required,min=1"`
}

func NewTermsEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[TermsArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}

	terms := make(map[string]int64, len(parsedArgs.Terms))
	for label, id := range parsedArgs.Terms {
		terms[strings.ToLower(strings.TrimSpace(label))] = id
	}

	return &TermsEvaluator{key: key, args: parsedArgs, terms: terms}, nil
}

// TermsEvaluator resolves a payment term label to its internal id,
// case-insensitively. An unmatched label is an error; callers log it and
// omit the field.
type TermsEvaluator struct {
	key   string
	args  TermsArguments
	terms map[string]int64
}

func (e *TermsEvaluator) Key() string {
	return e.key
}

func (e *TermsEvaluator) Columns() []string {
	return []string{e.args.Column}
}

func (e *TermsEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	label := transforms.Clean(row.Get(e.args.Column))
	if label == "" {
		return nil, nil
	}

	id, ok := e.terms[strings.ToLower(label)]
	if !ok {
		return nil, errors.NewParseErrorf("unmatched payment term %q", label).AddEvaluator(e.key)
	}
	return id, nil
}
