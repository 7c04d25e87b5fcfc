// Package parse compiles declarative parse definitions and executes them
// against rows of source data, producing record options.
//
// A Definition is the blueprint: per-field instructions (column passthrough,
// evaluator, or nested subrecord), per-sublist line instructions, and an
// optional value-mapping patch list. Call Compile once to validate the
// definition and construct its evaluators, then reuse the resulting
// Interpreter across every row of the file.
package parse

import (
	"sort"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/transforms"
)

// Definition describes how one record type is parsed from a file's rows.
type Definition struct {
	RecordType models.RecordType                    `json:"record_type" validate:"required"`
	IsDynamic  bool                                 `json:"is_dynamic"`
	Fields     models.FieldDictionaryParseOptions   `json:"fields" validate:"required"`
	Sublists   models.SublistDictionaryParseOptions `json:"sublists,omitempty"`
	Overrides  models.ValueMapping                  `json:"overrides,omitempty"`
}

type compiledField struct {
	fieldID      string
	defaultValue models.FieldValue
	colName      string
	normalizers  []transforms.Normalizer
	evaluator    registry.Evaluator
	subrecord    *compiledRecord
}

type compiledSublist struct {
	sublistID     string
	lines         [][]compiledField
	lineIDProp    string
	lineEvaluator registry.LineEvaluator
}

type compiledRecord struct {
	recordType models.RecordType
	isDynamic  bool
	fields     []compiledField
	sublists   []compiledSublist
}

// Interpreter is a compiled Definition ready to parse rows. Construct with
// Compile; safe for reuse across rows, not for concurrent mutation of the
// definition it was compiled from.
type Interpreter struct {
	definition Definition
	record     compiledRecord
	columns    []string
	logger     ectologger.Logger
}

// Compile validates the definition, constructs every evaluator it references,
// and returns an Interpreter. Configuration problems (an unknown evaluator
// key, a field setting more than one of col_name/evaluator/subrecord, invalid
// evaluator arguments) surface here, before any row is read.
func Compile(definition Definition, logger ectologger.Logger) (*Interpreter, error) {
	if definition.RecordType == "" {
		return nil, errors.NewParseError("record type is required")
	}
	if len(definition.Fields) == 0 && len(definition.Sublists) == 0 {
		return nil, errors.NewParseError("definition has no fields or sublists").AddRecord(string(definition.RecordType))
	}

	record, err := compileRecord(definition.RecordType, definition.IsDynamic, definition.Fields, definition.Sublists)
	if err != nil {
		return nil, errors.WrapParseError(err).AddRecord(string(definition.RecordType))
	}

	interpreter := &Interpreter{
		definition: definition,
		record:     *record,
		logger:     logger,
	}
	interpreter.columns = collectColumns(record)

	return interpreter, nil
}

// RequiredColumns returns the sorted, de-duplicated set of source columns the
// compiled definition reads. Callers validate these against the file header
// before any row is parsed.
func (i *Interpreter) RequiredColumns() []string {
	return i.columns
}

// RecordType returns the record type this interpreter produces.
func (i *Interpreter) RecordType() models.RecordType {
	return i.definition.RecordType
}

func compileRecord(
	recordType models.RecordType,
	isDynamic bool,
	fields models.FieldDictionaryParseOptions,
	sublists models.SublistDictionaryParseOptions,
) (*compiledRecord, error) {
	record := &compiledRecord{
		recordType: recordType,
		isDynamic:  isDynamic,
	}

	compiledFields, err := compileFields(fields)
	if err != nil {
		return nil, err
	}
	record.fields = compiledFields

	sublistIDs := make([]string, 0, len(sublists))
	for sublistID := range sublists {
		sublistIDs = append(sublistIDs, sublistID)
	}
	sort.Strings(sublistIDs)

	for _, sublistID := range sublistIDs {
		sublist, err := compileSublist(sublistID, sublists[sublistID])
		if err != nil {
			return nil, errors.WrapParseError(err).AddSublist(sublistID)
		}
		record.sublists = append(record.sublists, *sublist)
	}

	return record, nil
}

func compileFields(fields models.FieldDictionaryParseOptions) ([]compiledField, error) {
	fieldIDs := make([]string, 0, len(fields))
	for fieldID := range fields {
		fieldIDs = append(fieldIDs, fieldID)
	}
	sort.Strings(fieldIDs)

	compiled := make([]compiledField, 0, len(fields))
	for _, fieldID := range fieldIDs {
		field, err := compileField(fieldID, fields[fieldID])
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, *field)
	}

	return compiled, nil
}

func compileField(fieldID string, options models.FieldParseOptions) (*compiledField, error) {
	sources := 0
	if options.ColName != "" {
		sources++
	}
	if options.Evaluator != "" {
		sources++
	}
	if options.Subrecord != nil {
		sources++
	}
	if sources > 1 {
		return nil, errors.NewParseError("col_name, evaluator, and subrecord are mutually exclusive").AddField(fieldID)
	}
	if sources == 0 && models.IsNullLike(options.DefaultValue) {
		return nil, errors.NewParseError("field has no value source").AddField(fieldID)
	}
	if len(options.Normalizers) > 0 && options.ColName == "" {
		return nil, errors.NewParseError("normalizers require col_name").AddField(fieldID)
	}

	field := &compiledField{
		fieldID:      fieldID,
		defaultValue: options.DefaultValue,
		colName:      options.ColName,
	}

	for _, name := range options.Normalizers {
		normalizer, ok := transforms.Get(name)
		if !ok {
			return nil, errors.NewParseErrorf("unknown normalizer %q", name).AddField(fieldID)
		}
		field.normalizers = append(field.normalizers, normalizer)
	}

	if options.Evaluator != "" {
		evaluator, err := registry.GetEvaluator(options.Evaluator, options.Args)
		if err != nil {
			return nil, errors.WrapParseError(err).AddField(fieldID)
		}
		field.evaluator = evaluator
	}

	if options.Subrecord != nil {
		subrecord, err := compileRecord(options.Subrecord.Type, false, options.Subrecord.Fields, options.Subrecord.Sublists)
		if err != nil {
			return nil, errors.WrapParseError(err).AddField(fieldID)
		}
		field.subrecord = subrecord
	}

	return field, nil
}

func compileSublist(sublistID string, options models.SublistParseOptions) (*compiledSublist, error) {
	if len(options.Lines) == 0 {
		return nil, errors.NewParseError("sublist has no lines")
	}

	sublist := &compiledSublist{sublistID: sublistID}

	for _, lineOptions := range options.Lines {
		line, err := compileFields(models.FieldDictionaryParseOptions(lineOptions))
		if err != nil {
			return nil, err
		}
		sublist.lines = append(sublist.lines, line)
	}

	if options.LineID != nil {
		if options.LineID.Prop != "" && options.LineID.Evaluator != "" {
			return nil, errors.NewParseError("line id prop and evaluator are mutually exclusive")
		}
		sublist.lineIDProp = options.LineID.Prop
		if options.LineID.Evaluator != "" {
			lineEvaluator, err := registry.GetLineEvaluator(options.LineID.Evaluator, options.LineID.Args)
			if err != nil {
				return nil, err
			}
			sublist.lineEvaluator = lineEvaluator
		}
	}

	return sublist, nil
}

func collectColumns(record *compiledRecord) []string {
	seen := map[string]struct{}{}
	var walkFields func(fields []compiledField)
	var walkRecord func(r *compiledRecord)

	walkFields = func(fields []compiledField) {
		for _, field := range fields {
			if field.colName != "" {
				seen[field.colName] = struct{}{}
			}
			if field.evaluator != nil {
				for _, column := range field.evaluator.Columns() {
					if column != "" {
						seen[column] = struct{}{}
					}
				}
			}
			if field.subrecord != nil {
				walkRecord(field.subrecord)
			}
		}
	}

	walkRecord = func(r *compiledRecord) {
		walkFields(r.fields)
		for _, sublist := range r.sublists {
			for _, line := range sublist.lines {
				walkFields(line)
			}
		}
	}

	walkRecord(record)

	columns := make([]string, 0, len(seen))
	for column := range seen {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	return columns
}
