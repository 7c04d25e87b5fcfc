package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/parse"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func customerConfig() ParseConfig {
	return ParseConfig{
		Definition: parse.Definition{
			RecordType: models.RecordTypeCustomer,
			Fields: models.FieldDictionaryParseOptions{
				"companyname": {ColName: "Company"},
				"email":       {ColName: "Email"},
			},
		},
	}
}

func TestParse(t *testing.T) {
	data := strings.Join([]string{
		"Company,Email",
		"Acme Corp,info@acme.example",
		"Globex Inc,",
	}, "\n")

	driver := NewDriver(testLogger())
	results, err := driver.Parse(context.Background(), strings.NewReader(data), "customers.csv", ',', []ParseConfig{customerConfig()})
	require.NoError(t, err)

	records := results[models.RecordTypeCustomer]
	require.Len(t, records, 2)

	assert.Equal(t, "Acme Corp", records[0].GetString("companyname"))
	assert.Equal(t, "info@acme.example", records[0].GetString("email"))
	assert.Equal(t, "customers.csv", records[0].Meta.SourceFile)
	assert.Equal(t, []int{0}, records[0].Meta.DataSource)

	// Empty cell is null-like: the key must be absent, not empty.
	assert.False(t, records[1].HasField("email"))
	assert.Equal(t, []int{1}, records[1].Meta.DataSource)
}

func TestParseTabDelimited(t *testing.T) {
	data := "Company\tEmail\nAcme Corp\tinfo@acme.example\n"

	driver := NewDriver(testLogger())
	results, err := driver.Parse(context.Background(), strings.NewReader(data), "customers.tsv", '\t', []ParseConfig{customerConfig()})
	require.NoError(t, err)
	require.Len(t, results[models.RecordTypeCustomer], 1)
	assert.Equal(t, "Acme Corp", results[models.RecordTypeCustomer][0].GetString("companyname"))
}

func TestParseMissingColumnFailsFast(t *testing.T) {
	data := "Company\nAcme Corp\n"

	driver := NewDriver(testLogger())
	_, err := driver.Parse(context.Background(), strings.NewReader(data), "customers.csv", ',', []ParseConfig{customerConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
}

func TestParseShortRowsPad(t *testing.T) {
	// The second data row omits the trailing cell entirely.
	data := "Company,Email\nAcme Corp,info@acme.example\nGlobex Inc\n"

	driver := NewDriver(testLogger())
	results, err := driver.Parse(context.Background(), strings.NewReader(data), "customers.csv", ',', []ParseConfig{customerConfig()})
	require.NoError(t, err)

	records := results[models.RecordTypeCustomer]
	require.Len(t, records, 2)
	assert.Equal(t, "Globex Inc", records[1].GetString("companyname"))
	assert.False(t, records[1].HasField("email"))
}

func TestParseFilterDropsRecord(t *testing.T) {
	data := "Company,Email\nAcme Corp,info@acme.example\nGlobex Inc,sales@globex.example\n"

	config := customerConfig()
	config.Filter = func(record *models.RecordOptions) *models.RecordOptions {
		if record.GetString("companyname") == "Globex Inc" {
			return nil
		}
		return record
	}

	driver := NewDriver(testLogger())
	results, err := driver.Parse(context.Background(), strings.NewReader(data), "customers.csv", ',', []ParseConfig{config})
	require.NoError(t, err)
	require.Len(t, results[models.RecordTypeCustomer], 1)
	assert.Equal(t, "Acme Corp", results[models.RecordTypeCustomer][0].GetString("companyname"))
}

func TestParseFilterReroutesRecordType(t *testing.T) {
	data := "Company,Email\nAcme Corp,info@acme.example\nGlobex Inc,sales@globex.example\n"

	config := customerConfig()
	config.Filter = func(record *models.RecordOptions) *models.RecordOptions {
		if record.GetString("companyname") == "Globex Inc" {
			record.Type = models.RecordTypeVendor
		}
		return record
	}

	driver := NewDriver(testLogger())
	results, err := driver.Parse(context.Background(), strings.NewReader(data), "customers.csv", ',', []ParseConfig{config})
	require.NoError(t, err)

	require.Len(t, results[models.RecordTypeCustomer], 1)
	assert.Equal(t, "Acme Corp", results[models.RecordTypeCustomer][0].GetString("companyname"))

	// Rerouted records land in the bucket for their new type.
	require.Len(t, results[models.RecordTypeVendor], 1)
	assert.Equal(t, "Globex Inc", results[models.RecordTypeVendor][0].GetString("companyname"))
}

func TestParseMultipleConfigsShareRows(t *testing.T) {
	data := "Company,Email\nAcme Corp,info@acme.example\n"

	contact := ParseConfig{
		Definition: parse.Definition{
			RecordType: models.RecordTypeContact,
			Fields: models.FieldDictionaryParseOptions{
				"company": {ColName: "Company"},
			},
		},
	}

	driver := NewDriver(testLogger())
	results, err := driver.Parse(context.Background(), strings.NewReader(data), "customers.csv", ',', []ParseConfig{customerConfig(), contact})
	require.NoError(t, err)
	assert.Len(t, results[models.RecordTypeCustomer], 1)
	assert.Len(t, results[models.RecordTypeContact], 1)
}

func TestParseNoHeader(t *testing.T) {
	driver := NewDriver(testLogger())
	_, err := driver.Parse(context.Background(), strings.NewReader(""), "empty.csv", ',', []ParseConfig{customerConfig()})
	assert.Error(t, err)
}

func TestParseNoConfigs(t *testing.T) {
	driver := NewDriver(testLogger())
	_, err := driver.Parse(context.Background(), strings.NewReader("Company\n"), "customers.csv", ',', nil)
	assert.Error(t, err)
}

func TestDelimiterFor(t *testing.T) {
	assert.Equal(t, '\t', delimiterFor("/data/export.tsv"))
	assert.Equal(t, '\t', delimiterFor("/data/EXPORT.TXT"))
	assert.Equal(t, ',', delimiterFor("/data/export.csv"))
	assert.Equal(t, ',', delimiterFor("/data/export"))
}
