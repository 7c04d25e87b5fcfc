// Package line provides evaluators that compute identity strings for
// sublist lines after the line's fields have been assembled.
package line

import (
	"fmt"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type ConcatArguments struct {
	// Fields are line field ids joined in order to form the line id.
	Fields    []string `json:"fields" validate:"required,min=1"`
	Separator string   `json:"separator,omitempty"`
}

func NewConcatLineEvaluator(key string, args any) (registry.LineEvaluator, error) {
	parsedArgs, err := utils.ValidateArguments[ConcatArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}
	if parsedArgs.Separator == "" {
		parsedArgs.Separator = ":"
	}

	return &ConcatLineEvaluator{key: key, args: parsedArgs}, nil
}

type ConcatLineEvaluator struct {
	key  string
	args ConcatArguments
}

func (e *ConcatLineEvaluator) Key() string {
	return e.key
}

func (e *ConcatLineEvaluator) EvaluateLine(fields models.FieldDictionary) (string, error) {
	parts := make([]string, 0, len(e.args.Fields))
	for _, fieldID := range e.args.Fields {
		value, ok := fields[fieldID]
		if !ok || models.IsNullLike(value) {
			continue
		}
		parts = append(parts, fmt.Sprint(value))
	}

	if len(parts) == 0 {
		return "", errors.NewParseError("no line id fields present").AddEvaluator(e.key)
	}

	return strings.Join(parts, e.args.Separator), nil
}
