package entity

import (
	"context"
	"regexp"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
	"github.com/Ramsey-B/fern/pkg/utils"
)

type IsPersonArguments struct {
	EntityColumn  string `json:"entity_column" validate:"required"`
	CompanyColumn string `json:"company_column,omitempty"`
	// HumanOverrides lists entity ids known to be people despite looking
	// like companies. Injected configuration, never a built-in list.
	HumanOverrides []string `json:"human_overrides,omitempty"`
}

var companyKeywordPattern = regexp.MustCompile(`(?i)\b(company|corporation|incorporated|limited|group|industries|enterprises|associates|partners|holdings|solutions|services|systems|technologies|laboratories|labs|supply|distribution|pharmacy|clinic|medical|dental|hospital|salon|spa|studio|center|centre|church|school|university|foundation|trust|bank)\b`)

var companySuffixes = []string{
	"inc", "corp", "co", "ltd", "llc", "llp", "lp", "plc", "pc", "pllc",
}

func NewIsPersonEvaluator(key string, args any) (registry.Evaluator, error) {
	parsedArgs, err := utils.ValidateArguments[IsPersonArguments](args)
	if err != nil {
		return nil, errors.WrapParseError(err).AddEvaluator(key)
	}

	overrides := make(map[string]bool, len(parsedArgs.HumanOverrides))
	for _, name := range parsedArgs.HumanOverrides {
		overrides[strings.ToLower(transforms.CollapseWhitespace(name))] = true
	}

	return &IsPersonEvaluator{key: key, args: parsedArgs, overrides: overrides}, nil
}

// IsPersonEvaluator classifies an entity id as a person or a company.
//
// The check order is a priority chain and must not be reordered: the
// human-override list short-circuits before any "looks like a company"
// signal, and the company-column mismatch test runs last before the
// default.
type IsPersonEvaluator struct {
	key       string
	args      IsPersonArguments
	overrides map[string]bool
}

func (e *IsPersonEvaluator) Key() string {
	return e.key
}

func (e *IsPersonEvaluator) Columns() []string {
	cols := []string{e.args.EntityColumn}
	if e.args.CompanyColumn != "" {
		cols = append(cols, e.args.CompanyColumn)
	}
	return cols
}

func (e *IsPersonEvaluator) Evaluate(_ context.Context, row models.Row) (models.FieldValue, error) {
	entityID := transforms.Clean(row.Get(e.args.EntityColumn))
	if entityID == "" {
		return false, nil
	}

	// 1. Known-human override list wins over everything.
	if e.overrides[strings.ToLower(entityID)] {
		return true, nil
	}

	// 2. Company keyword anywhere in the id.
	if companyKeywordPattern.MatchString(entityID) {
		return false, nil
	}

	// 3. Company abbreviation suffix.
	if hasCompanySuffix(entityID) {
		return false, nil
	}

	// 4. Digits and email addresses do not appear in personal names.
	if strings.ContainsAny(entityID, "0123456789@") {
		return false, nil
	}

	// 5. A single token is treated as a company name.
	// TODO(parse): single-word ids that are bare first names get
	// classified as companies here; revisit once the legacy export's
	// one-token entries have been audited.
	if len(strings.Fields(entityID)) < 2 {
		return false, nil
	}

	// 6. A company column that disagrees with the entity id means the id
	// is a contact at that company.
	if e.args.CompanyColumn != "" {
		company := transforms.Clean(row.Get(e.args.CompanyColumn))
		if company != "" && !strings.EqualFold(company, entityID) {
			return false, nil
		}
	}

	return true, nil
}

func hasCompanySuffix(entityID string) bool {
	lowered := strings.ToLower(strings.TrimSuffix(entityID, "."))
	for _, suffix := range companySuffixes {
		if strings.HasSuffix(lowered, " "+suffix) || strings.HasSuffix(lowered, ","+suffix) || strings.HasSuffix(lowered, ", "+suffix) {
			return true
		}
	}
	return false
}
