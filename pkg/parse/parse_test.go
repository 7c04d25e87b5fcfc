package parse

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/evaluators"
	"github.com/Ramsey-B/fern/pkg/evaluators/entity"
	"github.com/Ramsey-B/fern/pkg/evaluators/line"
	"github.com/Ramsey-B/fern/pkg/models"
)

func init() {
	evaluators.RegisterAll()
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestCompileRejectsConflictingSources(t *testing.T) {
	_, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {
				ColName:   "Customer",
				Evaluator: evaluators.EntityIDEvaluator,
				Args:      entity.EntityIDArguments{Column: "Customer"},
			},
		},
	}, testLogger())
	assert.Error(t, err)
}

func TestCompileRejectsUnknownEvaluator(t *testing.T) {
	_, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {Evaluator: "no_such_evaluator"},
		},
	}, testLogger())
	assert.Error(t, err)
}

func TestCompileRejectsEmptyDefinition(t *testing.T) {
	_, err := Compile(Definition{RecordType: models.RecordTypeCustomer}, testLogger())
	assert.Error(t, err)
}

func TestParseRowOmitsNullLikeFields(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"companyname": {ColName: "Company"},
			"comments":    {ColName: "Notes"},
			"category":    {DefaultValue: "migrated"},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{
		"Company": "Acme Corp",
		"Notes":   "",
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", record.Fields["companyname"])
	assert.Equal(t, "migrated", record.Fields["category"])

	// The omission contract: a null-like value means no key at all, never a
	// key holding nil.
	_, present := record.Fields["comments"]
	assert.False(t, present)
}

func TestParseRowDefaultOnlyWhenNullLike(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"terms": {ColName: "Terms", DefaultValue: "Net 30"},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{"Terms": "Net 60"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Net 60", record.Fields["terms"])

	record, err = interpreter.ParseRow(context.Background(), models.Row{"Terms": ""}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Net 30", record.Fields["terms"])
}

func TestParseRowNormalizers(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeInventoryItem,
		Fields: models.FieldDictionaryParseOptions{
			"displayname": {ColName: "Description", Normalizers: []string{"collapse_whitespace"}},
			"upccode":     {ColName: "UPC", Normalizers: []string{"digits_only"}},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{
		"Description": "  Widget,   blue ",
		"UPC":         "0-12345-67890-5",
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, "Widget, blue", record.Fields["displayname"])
	assert.Equal(t, "012345678905", record.Fields["upccode"])
}

func TestParseRowNormalizersSkipOverriddenValue(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeInventoryItem,
		Fields: models.FieldDictionaryParseOptions{
			"upccode": {ColName: "UPC", Normalizers: []string{"digits_only"}},
		},
		Overrides: models.ValueMapping{
			"unknown": {NewValue: "000000000000", ValidColumns: []string{"UPC"}},
		},
	}, testLogger())
	require.NoError(t, err)

	// The override matches the raw cell and its replacement passes through
	// untouched by the normalizer chain.
	record, err := interpreter.ParseRow(context.Background(), models.Row{"UPC": "unknown"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "000000000000", record.Fields["upccode"])
}

func TestCompileRejectsUnknownNormalizer(t *testing.T) {
	_, err := Compile(Definition{
		RecordType: models.RecordTypeInventoryItem,
		Fields: models.FieldDictionaryParseOptions{
			"upccode": {ColName: "UPC", Normalizers: []string{"no_such_normalizer"}},
		},
	}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_normalizer")
}

func TestCompileRejectsNormalizersWithoutColumn(t *testing.T) {
	_, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {
				Evaluator:   evaluators.EntityIDEvaluator,
				Args:        entity.EntityIDArguments{Column: "Customer"},
				Normalizers: []string{"trim"},
			},
		},
	}, testLogger())
	assert.Error(t, err)
}

func TestParseRowValueOverrides(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"companyname": {ColName: "Company"},
		},
		Overrides: models.ValueMapping{
			"Acme Crop": {NewValue: "Acme Corp", ValidColumns: []string{"Company"}},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{"Company": "Acme Crop"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", record.Fields["companyname"])
}

func TestParseRowSubrecord(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {ColName: "Customer"},
			"billingaddress": {
				Subrecord: &models.SubrecordParseOptions{
					Type: models.RecordTypeAddress,
					Fields: models.FieldDictionaryParseOptions{
						"addr1": {ColName: "Street1"},
						"city":  {ColName: "City"},
					},
				},
			},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{
		"Customer": "Acme Corp",
		"Street1":  "123 Main St",
		"City":     "Springfield",
	}, 0)
	require.NoError(t, err)

	subrecord, ok := record.Fields["billingaddress"].(*models.SubrecordValue)
	require.True(t, ok)
	assert.Equal(t, models.RecordTypeAddress, subrecord.Type)
	assert.Equal(t, "123 Main St", subrecord.Fields["addr1"])
	assert.Equal(t, "Springfield", subrecord.Fields["city"])
}

func TestParseRowEmptySubrecordOmitted(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {ColName: "Customer"},
			"billingaddress": {
				Subrecord: &models.SubrecordParseOptions{
					Type: models.RecordTypeAddress,
					Fields: models.FieldDictionaryParseOptions{
						"addr1": {ColName: "Street1"},
					},
				},
			},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{
		"Customer": "Acme Corp",
		"Street1":  "",
	}, 0)
	require.NoError(t, err)

	_, present := record.Fields["billingaddress"]
	assert.False(t, present)
}

func TestParseRowSublistLines(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeSalesOrder,
		Fields: models.FieldDictionaryParseOptions{
			"otherrefnum": {ColName: "PO Number"},
		},
		Sublists: models.SublistDictionaryParseOptions{
			"item": {
				Lines: []models.SublistLineParseOptions{{
					"item":     {ColName: "Item"},
					"quantity": {ColName: "Quantity"},
				}},
				LineID: &models.LineIDOptions{
					Evaluator: evaluators.ConcatLineEvaluator,
					Args:      line.ConcatArguments{Fields: []string{"item", "quantity"}},
				},
			},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{
		"PO Number": "PO-100",
		"Item":      "SKU-1",
		"Quantity":  "2",
	}, 0)
	require.NoError(t, err)

	lines := record.Sublists["item"]
	require.Len(t, lines, 1)
	assert.Equal(t, 0, lines[0].Line)
	assert.Equal(t, "SKU-1", lines[0].Fields["item"])
	assert.Equal(t, "SKU-1:2", lines[0].LineID)
}

func TestParseRowSublistNumbersProducedLines(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Sublists: models.SublistDictionaryParseOptions{
			"addressbook": {
				Lines: []models.SublistLineParseOptions{
					{"label": {ColName: "Billing Label"}},
					{"label": {ColName: "Shipping Label"}},
				},
			},
		},
	}, testLogger())
	require.NoError(t, err)

	// The first line entry resolves nothing, so the second entry's line is
	// produced at position zero: numbering is contiguous over produced
	// lines, not over the definition's entries.
	record, err := interpreter.ParseRow(context.Background(), models.Row{
		"Billing Label":  "",
		"Shipping Label": "Warehouse",
	}, 0)
	require.NoError(t, err)

	lines := record.Sublists["addressbook"]
	require.Len(t, lines, 1)
	assert.Equal(t, 0, lines[0].Line)
	assert.Equal(t, "Warehouse", lines[0].Fields["label"])
}

func TestParseRowEvaluatorFailureOmitsField(t *testing.T) {
	terms := map[string]int64{"net 30": 5}
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {ColName: "Customer"},
			"terms": {
				Evaluator: evaluators.TermsEvaluator,
				Args:      map[string]any{"column": "Terms", "terms": terms},
			},
		},
	}, testLogger())
	require.NoError(t, err)

	record, err := interpreter.ParseRow(context.Background(), models.Row{
		"Customer": "Acme Corp",
		"Terms":    "Net 45",
	}, 0)
	require.NoError(t, err)

	// The unmatched term is logged and omitted; the rest of the record
	// parses normally.
	assert.Equal(t, "Acme Corp", record.Fields["entityid"])
	_, present := record.Fields["terms"]
	assert.False(t, present)
}

func TestRequiredColumns(t *testing.T) {
	interpreter, err := Compile(Definition{
		RecordType: models.RecordTypeCustomer,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {
				Evaluator: evaluators.EntityIDEvaluator,
				Args:      entity.EntityIDArguments{Column: "Customer"},
			},
			"billingaddress": {
				Subrecord: &models.SubrecordParseOptions{
					Type: models.RecordTypeAddress,
					Fields: models.FieldDictionaryParseOptions{
						"addr1": {ColName: "Street1"},
					},
				},
			},
			"category": {DefaultValue: "migrated"},
		},
	}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Customer", "Street1"}, interpreter.RequiredColumns())
}
