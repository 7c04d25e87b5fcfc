package parse

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ParseRow executes the compiled definition against one row and returns the
// resulting record options. rowIndex is the zero-based data row position,
// recorded as provenance.
//
// Field failures do not fail the row: a field whose evaluator errors is
// logged and omitted, and parsing continues. Only structural problems (a nil
// row) return an error.
func (i *Interpreter) ParseRow(ctx context.Context, row models.Row, rowIndex int) (*models.RecordOptions, error) {
	ctx, span := tracing.StartSpan(ctx, "parse.ParseRow")
	defer span.End()

	if row == nil {
		return nil, errors.NewParseError("row is nil").AddRecord(string(i.record.recordType))
	}

	record := models.NewRecordOptions(i.record.recordType)
	record.IsDynamic = i.record.isDynamic
	record.AddSource(rowIndex)

	i.parseInto(ctx, row, &i.record, record.Fields, record.Sublists)

	return record, nil
}

func (i *Interpreter) parseInto(
	ctx context.Context,
	row models.Row,
	compiled *compiledRecord,
	fields models.FieldDictionary,
	sublists models.SublistDictionary,
) {
	for _, field := range compiled.fields {
		value, ok := i.resolveField(ctx, row, compiled.recordType, field)
		if ok {
			fields[field.fieldID] = value
		}
	}

	for _, sublist := range compiled.sublists {
		lines := i.parseSublist(ctx, row, compiled.recordType, sublist)
		if len(lines) > 0 {
			sublists[sublist.sublistID] = lines
		}
	}
}

// resolveField produces the field's value and reports whether it should be
// stored. Null-like results fall back to the default value; a still-null
// result means the field is omitted entirely.
func (i *Interpreter) resolveField(
	ctx context.Context,
	row models.Row,
	recordType models.RecordType,
	field compiledField,
) (any, bool) {
	if field.subrecord != nil {
		subrecord := &models.SubrecordValue{
			Type:     field.subrecord.recordType,
			Fields:   make(models.FieldDictionary),
			Sublists: make(models.SublistDictionary),
		}
		i.parseInto(ctx, row, field.subrecord, subrecord.Fields, subrecord.Sublists)
		if len(subrecord.Fields) == 0 && len(subrecord.Sublists) == 0 {
			return nil, false
		}
		if len(subrecord.Sublists) == 0 {
			subrecord.Sublists = nil
		}
		return subrecord, true
	}

	value := i.resolveValue(ctx, row, recordType, field)

	if models.IsNullLike(value) && !models.IsNullLike(field.defaultValue) {
		value = field.defaultValue
	}
	if models.IsNullLike(value) {
		return nil, false
	}

	return value, true
}

// resolveValue runs the field's source. Value-mapping overrides are checked
// against the raw cell before any evaluator or passthrough runs: for a
// passthrough that is the named column, for an evaluator it is each of the
// columns the evaluator reads, in order.
func (i *Interpreter) resolveValue(
	ctx context.Context,
	row models.Row,
	recordType models.RecordType,
	field compiledField,
) any {
	if field.colName != "" {
		raw := row.Get(field.colName)
		// Overrides match the raw cell, before any normalizer touches it.
		if override, ok := i.definition.Overrides.Lookup(raw, field.colName); ok {
			return override
		}
		value := raw
		for _, normalize := range field.normalizers {
			value = normalize(value)
		}
		return value
	}

	if field.evaluator != nil {
		for _, column := range field.evaluator.Columns() {
			if override, ok := i.definition.Overrides.Lookup(row.Get(column), column); ok {
				return override
			}
		}

		value, err := field.evaluator.Evaluate(ctx, row)
		if err != nil {
			i.logger.WithContext(ctx).
				WithError(err).
				WithField("record_type", string(recordType)).
				WithField("field_id", field.fieldID).
				WithField("evaluator", field.evaluator.Key()).
				Warn("evaluator failed, omitting field")
			return nil
		}
		return value
	}

	return nil
}

func (i *Interpreter) parseSublist(
	ctx context.Context,
	row models.Row,
	recordType models.RecordType,
	sublist compiledSublist,
) []models.SublistLine {
	var lines []models.SublistLine

	for _, compiledLine := range sublist.lines {
		fields := make(models.FieldDictionary)
		for _, field := range compiledLine {
			value, ok := i.resolveField(ctx, row, recordType, field)
			if ok {
				fields[field.fieldID] = value
			}
		}

		// A line with no resolved fields is not produced at all. Line
		// numbers count produced lines, so a skipped entry shifts the
		// entries after it; the numbering stays contiguous, matching how
		// pruning renumbers surviving lines.
		if len(fields) == 0 {
			continue
		}

		line := models.SublistLine{
			Fields:     fields,
			Line:       len(lines),
			LineIDProp: sublist.lineIDProp,
		}

		if sublist.lineEvaluator != nil {
			lineID, err := sublist.lineEvaluator.EvaluateLine(fields)
			if err != nil {
				i.logger.WithContext(ctx).
					WithError(err).
					WithField("record_type", string(recordType)).
					WithField("sublist_id", sublist.sublistID).
					Warn("line evaluator failed, line kept without an id")
			} else {
				line.LineID = lineID
			}
		}

		lines = append(lines, line)
	}

	return lines
}
