package entity

import (
	"context"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type AttentionArguments struct {
	EntityColumn string   `json:"entity_column" validate:"required"`
	NameColumns  []string `json:"name_columns" validate:"required,min=1"`
}

func NewAttentionEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[AttentionArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}

	return &AttentionEvaluator{key: key, args: parsedArgs}, nil
}

// AttentionEvaluator builds an address attention line from the name columns,
// taking the first column holding a whole name or composing the columns in
// order when the export splits names into parts. An attention equal to the
// entity id is suppressed so an address never reads "Attention: Acme Corp"
// under an Acme Corp addressee.
type AttentionEvaluator struct {
	key  string
	args AttentionArguments
}

func (e *AttentionEvaluator) Key() string {
	return e.key
}

func (e *AttentionEvaluator) Columns() []string {
	return append([]string{e.args.EntityColumn}, e.args.NameColumns...)
}

func (e *AttentionEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	full := e.fullName(row)
	if full == "" {
		return "", nil
	}

	entityID := transforms.Clean(row.Get(e.args.EntityColumn))
	if strings.EqualFold(full, entityID) {
		return "", nil
	}

	return full, nil
}

// fullName tries each name column as a whole name, then falls back to
// composing the columns in order. Exports that split names into part columns
// ("First Name", "Last Name") only produce a name through the composed path.
func (e *AttentionEvaluator) fullName(row models.Row) string {
	joined := make([]string, 0, len(e.args.NameColumns))
	for _, column := range e.args.NameColumns {
		value := transforms.Clean(row.Get(column))
		parts := transforms.ExtractName(value)
		if parts.First != "" && parts.Last != "" {
			return parts.Full()
		}
		if value != "" {
			joined = append(joined, value)
		}
	}

	parts := transforms.ExtractName(strings.Join(joined, " "))
	if parts.First != "" && parts.Last != "" {
		return parts.Full()
	}
	return ""
}
