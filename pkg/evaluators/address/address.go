// Package address provides evaluators for street, state, and country fields.
package address

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type StreetArguments struct {
	// Columns are tried in order; the first non-empty cleaned value wins.
	Columns []string `json:"columns" validate:"required,min=1"`
}

func NewStreetEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[StreetArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}

	return &StreetEvaluator{key: key, args: parsedArgs}, nil
}

type StreetEvaluator struct {
	key  string
	args StreetArguments
}

func (e *StreetEvaluator) Key() string {
	return e.key
}

func (e *StreetEvaluator) Columns() []string {
	return e.args.Columns
}

func (e *StreetEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	for _, column := range e.args.Columns {
		if value := transforms.Clean(row.Get(column), transforms.CleanOptions{KeepTrailingPeriod: true}); value != "" {
			return value, nil
		}
	}
	return "", nil
}

type StateArguments struct {
	Columns []string `json:"columns" validate:"required,min=1"`
}

func NewStateEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[StateArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}

	return &StateEvaluator{key: key, args: parsedArgs}, nil
}

// StateEvaluator resolves a full state name or abbreviation to its code.
type StateEvaluator struct {
	key  string
	args StateArguments
}

func (e *StateEvaluator) Key() string {
	return e.key
}

func (e *StateEvaluator) Columns() []string {
	return e.args.Columns
}

func (e *StateEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	for _, column := range e.args.Columns {
		if code := transforms.StateCode(row.Get(column)); code != "" {
			return code, nil
		}
	}
	return "", nil
}

type CountryArguments struct {
	Columns []string `json:"columns,omitempty"`
	// StateColumns back the US default: an unrecognized country with a
	// valid US state resolves to "US".
	StateColumns []string `json:"state_columns,omitempty"`
}

func NewCountryEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[CountryArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}
	if len(parsedArgs.Columns) == 0 && len(parsedArgs.StateColumns) == 0 {
		return nil, errors.NewParseError("country or state columns are required").AddEvaluator(key)
	}

	return &CountryEvaluator{key: key, args: parsedArgs}, nil
}

type CountryEvaluator struct {
	key  string
	args CountryArguments
}

func (e *CountryEvaluator) Key() string {
	return e.key
}

func (e *CountryEvaluator) Columns() []string {
	return append(append([]string{}, e.args.Columns...), e.args.StateColumns...)
}

func (e *CountryEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	for _, column := range e.args.Columns {
		if code := transforms.CountryCode(row.Get(column)); code != "" {
			return code, nil
		}
	}

	for _, column := range e.args.StateColumns {
		if transforms.StateCode(row.Get(column)) != "" {
			return "US", nil
		}
	}

	return "", nil
}
