package recorddelete

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/logtrail"
	"github.com/Ramsey-B/fern/pkg/models"
)

type fakeSearcher struct {
	// results keyed by id prop; a missing key is a miss.
	results map[string][]record.StagedRecord
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, _ models.RecordType, option models.IDSearchOption) ([]record.StagedRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[option.IDProp], nil
}

func staged(internalID int64) record.StagedRecord {
	return record.StagedRecord{InternalID: &internalID}
}

func TestParseIDOptions(t *testing.T) {
	options, err := parseIDOptions(`[{"idProp":"entityid","searchOperator":"is","idValue":"Acme Corp"}]`)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "entityid", options[0].IDProp)
	assert.Equal(t, models.OperatorIs, options[0].SearchOperator)

	_, err = parseIDOptions(`[]`)
	assert.Error(t, err, "empty array is rejected")

	_, err = parseIDOptions(`not json`)
	assert.Error(t, err)

	_, err = parseIDOptions(`[{"idProp":"entityid"}]`)
	assert.Error(t, err, "options missing required keys are rejected")
}

func TestParseResponseOptions(t *testing.T) {
	options, err := parseResponseOptions(`{"responseFields":["companyname"],"responseSublists":{"addressbook":["addr1"]}}`)
	require.NoError(t, err)
	require.NotNil(t, options)
	assert.Equal(t, []string{"companyname"}, options.ResponseFields)

	options, err = parseResponseOptions("")
	require.NoError(t, err)
	assert.Nil(t, options)

	_, err = parseResponseOptions("{")
	assert.Error(t, err)
}

func TestResolveInternalIDUniqueMatchWins(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]record.StagedRecord{
		"entityid": {staged(42)},
	}}
	options := []models.IDSearchOption{
		{IDProp: "entityid", SearchOperator: models.OperatorIs, IDValue: "Acme Corp"},
		{IDProp: "externalid", SearchOperator: models.OperatorIs, IDValue: "LEGACY-9"},
	}

	id, err := resolveInternalID(context.Background(), searcher, models.RecordTypeCustomer, options, logtrail.New())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)
}

func TestResolveInternalIDMissFallsThrough(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]record.StagedRecord{
		"externalid": {staged(7)},
	}}
	options := []models.IDSearchOption{
		{IDProp: "entityid", SearchOperator: models.OperatorIs, IDValue: "Acme Corp"},
		{IDProp: "externalid", SearchOperator: models.OperatorIs, IDValue: "LEGACY-9"},
	}

	id, err := resolveInternalID(context.Background(), searcher, models.RecordTypeCustomer, options, logtrail.New())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)
}

func TestResolveInternalIDScalarTentative(t *testing.T) {
	// The first option matches twice with a scalar value: keep the first
	// match tentatively, then let a later unique match replace it.
	searcher := &fakeSearcher{results: map[string][]record.StagedRecord{
		"entityid":   {staged(1), staged(2)},
		"externalid": {staged(9)},
	}}
	options := []models.IDSearchOption{
		{IDProp: "entityid", SearchOperator: models.OperatorIs, IDValue: "Acme Corp"},
		{IDProp: "externalid", SearchOperator: models.OperatorIs, IDValue: "LEGACY-9"},
	}

	id, err := resolveInternalID(context.Background(), searcher, models.RecordTypeCustomer, options, logtrail.New())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(9), *id)

	// With no later unique match the tentative answer stands.
	searcher.results = map[string][]record.StagedRecord{
		"entityid": {staged(1), staged(2)},
	}
	id, err = resolveInternalID(context.Background(), searcher, models.RecordTypeCustomer, options, logtrail.New())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(1), *id)
}

func TestResolveInternalIDListValueNeverTentative(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]record.StagedRecord{
		"internalid": {staged(1), staged(2)},
	}}
	options := []models.IDSearchOption{
		{IDProp: "internalid", SearchOperator: models.OperatorAnyOf, IDValue: []any{"1", "2"}},
	}

	id, err := resolveInternalID(context.Background(), searcher, models.RecordTypeCustomer, options, logtrail.New())
	require.NoError(t, err)
	assert.Nil(t, id, "ambiguous list-valued searches resolve nothing")
}

func TestResolveInternalIDExhausted(t *testing.T) {
	searcher := &fakeSearcher{}
	options := []models.IDSearchOption{
		{IDProp: "entityid", SearchOperator: models.OperatorIs, IDValue: "Nobody"},
	}

	id, err := resolveInternalID(context.Background(), searcher, models.RecordTypeCustomer, options, logtrail.New())
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestResolveInternalIDSearchError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("db down")}
	options := []models.IDSearchOption{
		{IDProp: "entityid", SearchOperator: models.OperatorIs, IDValue: "Acme Corp"},
	}

	_, err := resolveInternalID(context.Background(), searcher, models.RecordTypeCustomer, options, logtrail.New())
	assert.Error(t, err)
}

func TestBuildSnapshot(t *testing.T) {
	stagedRecord := &record.StagedRecord{
		RecordType: models.RecordTypeCustomer,
		Fields: database.NewJSONB(models.FieldDictionary{
			"companyname": "Acme Corp",
			"email":       "info@acme.example",
			"billingaddress": &models.SubrecordValue{
				Type:   models.RecordTypeAddress,
				Fields: models.FieldDictionary{"addr1": "123 Main St"},
			},
		}),
		Sublists: database.NewJSONB(models.SublistDictionary{
			"addressbook": []models.SublistLine{
				{Fields: models.FieldDictionary{"addr1": "123 Main St", "label": "HQ"}},
			},
		}),
	}

	t.Run("no options returns only identity", func(t *testing.T) {
		result := buildSnapshot(stagedRecord, 42, nil)
		assert.Equal(t, int64(42), result.InternalID)
		assert.Equal(t, models.RecordTypeCustomer, result.Type)
		assert.Nil(t, result.Fields)
		assert.Nil(t, result.Sublists)
	})

	t.Run("requested fields are copied", func(t *testing.T) {
		result := buildSnapshot(stagedRecord, 42, &models.ResponseOptions{
			ResponseFields: []string{"companyname", "phone"},
		})
		assert.Equal(t, "Acme Corp", result.Fields["companyname"])
		_, ok := result.Fields["phone"]
		assert.False(t, ok, "absent fields stay absent")
	})

	t.Run("subrecord fields unwrap to their dictionary", func(t *testing.T) {
		result := buildSnapshot(stagedRecord, 42, &models.ResponseOptions{
			ResponseFields: []string{"billingaddress"},
		})
		fields, ok := result.Fields["billingaddress"].(models.FieldDictionary)
		require.True(t, ok)
		assert.Equal(t, "123 Main St", fields["addr1"])
	})

	t.Run("sublist lines filter to requested fields", func(t *testing.T) {
		result := buildSnapshot(stagedRecord, 42, &models.ResponseOptions{
			ResponseSublists: map[string][]string{"addressbook": {"addr1"}},
		})
		require.Len(t, result.Sublists["addressbook"], 1)
		line := result.Sublists["addressbook"][0]
		assert.Equal(t, "123 Main St", line["addr1"])
		_, ok := line["label"]
		assert.False(t, ok)
	})
}

func TestResolveSubrecordDecodedShape(t *testing.T) {
	// Values read back from jsonb arrive as generic maps.
	decoded := map[string]any{
		"subrecord_type": "address",
		"fields":         map[string]any{"addr1": "123 Main St"},
	}
	fields, ok := resolveSubrecord(decoded).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "123 Main St", fields["addr1"])

	// Anything else passes through untouched.
	assert.Equal(t, "plain", resolveSubrecord("plain"))
}
