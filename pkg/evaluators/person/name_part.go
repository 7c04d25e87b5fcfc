package person

import (
	"context"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// NamePart selects which piece of the name a NamePartEvaluator returns.
type NamePart string

const (
	PartFirst  NamePart = "first"
	PartMiddle NamePart = "middle"
	PartLast   NamePart = "last"
)

type NamePartArguments struct {
	// Column is the dedicated column for this part, e.g. "First Name".
	Column string `json:"column,omitempty"`
	// Fallbacks are full-name candidate columns used when the dedicated
	// column is empty or holds more than one word (legacy exports
	// sometimes put a full name in the first-name column).
	Fallbacks []string `json:"fallbacks,omitempty"`
}

func newNamePartFactory(part NamePart) registry.Factory {
	return func(key string, args any) (registry.Evaluator, error) {
		parsedArgs, err := utils.ValidateArguments[NamePartArguments](args)
		if err != nil {
			return nil, errors.WrapParseError(err).AddEvaluator(key)
		}
		if parsedArgs.Column == "" && len(parsedArgs.Fallbacks) == 0 {
			return nil, errors.NewParseError("a column or at least one fallback is required").AddEvaluator(key)
		}

		return &NamePartEvaluator{key: key, part: part, args: parsedArgs}, nil
	}
}

// NewFirstNameEvaluator, NewMiddleNameEvaluator, and NewLastNameEvaluator
// build the three part-specific factories over the shared evaluator.
var (
	NewFirstNameEvaluator  = newNamePartFactory(PartFirst)
	NewMiddleNameEvaluator = newNamePartFactory(PartMiddle)
	NewLastNameEvaluator   = newNamePartFactory(PartLast)
)

type NamePartEvaluator struct {
	key  string
	part NamePart
	args NamePartArguments
}

func (e *NamePartEvaluator) Key() string {
	return e.key
}

func (e *NamePartEvaluator) Columns() []string {
	cols := make([]string, 0, len(e.args.Fallbacks)+1)
	if e.args.Column != "" {
		cols = append(cols, e.args.Column)
	}
	return append(cols, e.args.Fallbacks...)
}

func (e *NamePartEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	if e.args.Column != "" {
		dedicated := transforms.Clean(row.Get(e.args.Column))
		if dedicated != "" && len(strings.Fields(dedicated)) == 1 {
			return dedicated, nil
		}
		// Multi-word dedicated value: the column holds a full name, so
		// run it through name extraction ahead of the fallbacks.
		if dedicated != "" {
			if v := e.pick(transforms.ExtractName(dedicated)); v != "" {
				return v, nil
			}
		}
	}

	return e.pick(findName(row, e.args.Fallbacks)), nil
}

func (e *NamePartEvaluator) pick(parts transforms.NameParts) string {
	switch e.part {
	case PartFirst:
		return parts.First
	case PartMiddle:
		return parts.Middle
	default:
		return parts.Last
	}
}
