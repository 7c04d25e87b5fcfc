// Package models defines the record-options data model shared by the parse
// interpreter, the post-processing pipeline, and the record APIs.
package models

// FieldValue is the atomic value a body field or sublist cell can hold:
// a string, bool, int/float, a date string, a string/number slice, or nil.
type FieldValue = any

// FieldDictionary maps a field ID to its resolved value. Values are either a
// FieldValue or a *SubrecordValue for fields that hold a nested record.
//
// Absence of a key is meaningful: a field that resolved to a null-like value
// is omitted, never stored as nil. The upsert collaborator distinguishes
// "not set" from "explicitly null".
type FieldDictionary map[string]any

// SublistLine is one line of a sublist. Line is the zero-based position unless
// the parse options supplied an explicit number. LineIDProp names the field
// whose value identifies this line for upsert matching; LineID carries a
// computed identity when a line evaluator was configured instead.
type SublistLine struct {
	Fields     FieldDictionary `json:"fields"`
	Line       int             `json:"line"`
	LineIDProp string          `json:"line_id_prop,omitempty"`
	LineID     string          `json:"line_id,omitempty"`
}

// SublistDictionary maps a sublist ID to its ordered lines.
type SublistDictionary map[string][]SublistLine

// SubrecordValue is a nested record held by a body field or a sublist cell
// (addresses, in practice).
type SubrecordValue struct {
	Type     RecordType        `json:"subrecord_type"`
	Fields   FieldDictionary   `json:"fields,omitempty"`
	Sublists SublistDictionary `json:"sublists,omitempty"`
}

// RecordMeta carries provenance and identification data that travels with a
// record through post-processing but is not part of the ERP payload.
type RecordMeta struct {
	// SourceFile and DataSource point back at the originating rows so a
	// caller can regenerate a missing related record from the raw input.
	SourceFile string `json:"source_file,omitempty"`
	DataSource []int  `json:"data_source,omitempty"`

	// IDOptions are identification search options derived during compose,
	// consumed later by upsert matching.
	IDOptions []IDSearchOption `json:"id_options,omitempty"`
}

// RecordOptions is the parse output for one record: the contract handed to
// the external upsert collaborator. Mutated in place by clone/compose/prune.
type RecordOptions struct {
	Type      RecordType        `json:"record_type"`
	IsDynamic bool              `json:"is_dynamic"`
	Fields    FieldDictionary   `json:"fields"`
	Sublists  SublistDictionary `json:"sublists,omitempty"`
	Meta      RecordMeta        `json:"meta,omitempty"`
}

// NewRecordOptions returns an empty record of the given type with initialized
// dictionaries.
func NewRecordOptions(recordType RecordType) *RecordOptions {
	return &RecordOptions{
		Type:     recordType,
		Fields:   make(FieldDictionary),
		Sublists: make(SublistDictionary),
	}
}

// GetString returns the field's value as a string, or "" when the field is
// absent or holds a non-string.
func (r *RecordOptions) GetString(fieldID string) string {
	v, ok := r.Fields[fieldID]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool returns the field's value as a bool; absent fields are false.
func (r *RecordOptions) GetBool(fieldID string) bool {
	v, ok := r.Fields[fieldID]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// HasField reports whether the field ID is present, regardless of value.
func (r *RecordOptions) HasField(fieldID string) bool {
	_, ok := r.Fields[fieldID]
	return ok
}

// AddSource appends row indices to the record's provenance, skipping
// duplicates.
func (r *RecordOptions) AddSource(rows ...int) {
	for _, row := range rows {
		seen := false
		for _, existing := range r.Meta.DataSource {
			if existing == row {
				seen = true
				break
			}
		}
		if !seen {
			r.Meta.DataSource = append(r.Meta.DataSource, row)
		}
	}
}

// IsNullLike reports whether a resolved value counts as "no value": nil, an
// empty string, or an empty slice. Zero numbers and false are real values.
func IsNullLike(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []float64:
		return len(v) == 0
	case []int:
		return len(v) == 0
	default:
		return false
	}
}
