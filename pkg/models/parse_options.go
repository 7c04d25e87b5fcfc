package models

// FieldParseOptions is the declarative instruction for deriving one field's
// value from a row. Exactly one of ColName, Evaluator, or Subrecord may be
// set; DefaultValue applies only when the row-derived value is null-like.
// Mutual exclusivity is enforced when a definition is compiled, not here.
type FieldParseOptions struct {
	// DefaultValue is used when the resolved value is null-like. A field
	// with only a DefaultValue is a constant.
	DefaultValue FieldValue `json:"default_value,omitempty"`

	// ColName passes row[ColName] through directly.
	ColName string `json:"col_name,omitempty"`

	// Normalizers names registered transforms applied in order to the value
	// read from ColName. Only valid alongside ColName; evaluators do their
	// own cleaning.
	Normalizers []string `json:"normalizers,omitempty"`

	// Evaluator names a registered evaluator; Args is its argument bundle
	// (column references plus policy knobs), parsed by the evaluator's
	// factory.
	Evaluator string `json:"evaluator,omitempty"`
	Args      any    `json:"args,omitempty"`

	// Subrecord marks the recursive case: the field's value is a nested
	// record parsed from the same row.
	Subrecord *SubrecordParseOptions `json:"subrecord,omitempty"`
}

// FieldDictionaryParseOptions maps output field IDs to their parse
// instructions.
type FieldDictionaryParseOptions map[string]FieldParseOptions

// SublistLineParseOptions maps sublist field IDs to parse instructions for
// one line.
type SublistLineParseOptions map[string]FieldParseOptions

// LineIDOptions configures how a produced sublist line is identified for
// upsert matching: either a designated field (Prop) or a registered line
// evaluator computing an identity from the produced line.
type LineIDOptions struct {
	Prop      string `json:"prop,omitempty"`
	Evaluator string `json:"evaluator,omitempty"`
	Args      any    `json:"args,omitempty"`
}

// SublistParseOptions is the ordered sequence of line instructions for one
// sublist, plus optional line identity configuration shared by its lines.
type SublistParseOptions struct {
	Lines  []SublistLineParseOptions `json:"lines"`
	LineID *LineIDOptions            `json:"line_id,omitempty"`
}

// SublistDictionaryParseOptions maps sublist IDs to their line instructions.
type SublistDictionaryParseOptions map[string]SublistParseOptions

// SubrecordParseOptions recursively describes a nested record. Addresses are
// the only subrecord type exercised, nested in body fields and sublist lines.
type SubrecordParseOptions struct {
	Type     RecordType                    `json:"subrecord_type"`
	Fields   FieldDictionaryParseOptions   `json:"fields,omitempty"`
	Sublists SublistDictionaryParseOptions `json:"sublists,omitempty"`
}

// ValueOverride replaces a known-bad raw cell value. An empty ValidColumns
// applies regardless of the originating column.
type ValueOverride struct {
	NewValue     FieldValue `json:"new_value"`
	ValidColumns []string   `json:"valid_columns,omitempty"`
}

// ValueMapping patches known-bad source data by exact raw-value match before
// any evaluator or passthrough runs. Injected configuration; the core never
// carries a built-in correction list.
type ValueMapping map[string]ValueOverride

// Lookup returns the override for a raw value originating from column, and
// whether one applies.
func (m ValueMapping) Lookup(raw, column string) (FieldValue, bool) {
	if len(m) == 0 {
		return nil, false
	}
	override, ok := m[raw]
	if !ok {
		return nil, false
	}
	if len(override.ValidColumns) == 0 {
		return override.NewValue, true
	}
	for _, col := range override.ValidColumns {
		if col == column {
			return override.NewValue, true
		}
	}
	return nil, false
}
