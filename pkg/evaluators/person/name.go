// Package person provides evaluators that extract personal names from
// candidate columns in precedence order.
package person

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type FullNameArguments struct {
	// Columns are tried in order; the first whose cleaned value yields a
	// first and last name wins.
	Columns []string `json:"columns" validate:"required,min=1"`
}

func NewFullNameEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[FullNameArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}

	return &FullNameEvaluator{key: key, args: parsedArgs}, nil
}

type FullNameEvaluator struct {
	key  string
	args FullNameArguments
}

func (e *FullNameEvaluator) Key() string {
	return e.key
}

func (e *FullNameEvaluator) Columns() []string {
	return e.args.Columns
}

func (e *FullNameEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	parts := findName(row, e.args.Columns)
	return parts.Full(), nil
}

// findName returns the first candidate column that parses into a first and
// last name.
func findName(row models.Row, columns []string) transforms.NameParts {
	for _, column := range columns {
		parts := transforms.ExtractName(transforms.Clean(row.Get(column)))
		if parts.First != "" && parts.Last != "" {
			return parts
		}
	}
	return transforms.NameParts{}
}
