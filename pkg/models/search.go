package models

// IDSearchOption is one strategy for resolving a record's internal ID:
// match IDProp against IDValue using SearchOperator. Options are tried in
// order until one yields a unique match.
type IDSearchOption struct {
	IDProp         string `json:"idProp" validate:"required"`
	SearchOperator string `json:"searchOperator" validate:"required"`
	IDValue        any    `json:"idValue" validate:"required"`
}

// Search operators accepted by the record store. The enumeration belongs to
// the target system; these are the ones the delete endpoint supports.
const (
	OperatorAnyOf    = "anyof"
	OperatorIs       = "is"
	OperatorContains = "contains"
)

// ResponseOptions selects what to load into the pre-delete snapshot: body
// fields and, per sublist, the sublist fields to include.
type ResponseOptions struct {
	ResponseFields   []string            `json:"responseFields,omitempty"`
	ResponseSublists map[string][]string `json:"responseSublists,omitempty"`
}

// RecordResult is a snapshot of a record: the resolved internal ID plus the
// requested fields and sublist lines. Fields holding a known subrecord are
// resolved into their nested value.
type RecordResult struct {
	InternalID int64                        `json:"internalid"`
	Type       RecordType                   `json:"record_type"`
	Fields     FieldDictionary              `json:"fields,omitempty"`
	Sublists   map[string][]FieldDictionary `json:"sublists,omitempty"`
}
