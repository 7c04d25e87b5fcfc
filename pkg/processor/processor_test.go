package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/evaluators"
	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/items"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/logtrail"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/parse"
	"github.com/Ramsey-B/fern/pkg/pipeline"
)

func init() {
	evaluators.RegisterAll()
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeStore struct {
	inserted []*models.RecordOptions
}

func (f *fakeStore) Insert(_ context.Context, record *models.RecordOptions) (string, error) {
	f.inserted = append(f.inserted, record)
	return "id", nil
}

type fakePublisher struct {
	events []*kafka.RecordBatchEvent
}

func (f *fakePublisher) PublishRecordBatch(_ context.Context, event *kafka.RecordBatchEvent) error {
	f.events = append(f.events, event)
	return nil
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func customerRun(path string) Run {
	return Run{
		FilePath: path,
		Configs: []ingest.ParseConfig{{
			Definition: parse.Definition{
				RecordType: models.RecordTypeCustomer,
				Fields: models.FieldDictionaryParseOptions{
					"companyname": {ColName: "Company"},
				},
			},
		}},
		Pipeline: func(_ pipeline.ItemResolver) pipeline.Config {
			return pipeline.Config{
				Prune: map[models.RecordType]pipeline.PruneFunc{
					models.RecordTypeCustomer: func(_ context.Context, record *models.RecordOptions) *models.RecordOptions {
						if record.GetString("companyname") == "Reject Me" {
							return nil
						}
						return record
					},
				},
			}
		},
	}
}

func newTestProcessor(store RecordStore, publisher BatchPublisher) *Processor {
	newResolver := func() *items.Resolver {
		return items.NewResolver(nil, 0, nil, testLogger())
	}
	return NewProcessor(ingest.NewDriver(testLogger()), newResolver, store, publisher, logtrail.New(), testLogger())
}

func TestExecute(t *testing.T) {
	path := writeFile(t, "customers.csv", "Company\nAcme Corp\nReject Me\nGlobex Inc\n")

	store := &fakeStore{}
	publisher := &fakePublisher{}
	proc := newTestProcessor(store, publisher)

	result, err := proc.Execute(context.Background(), customerRun(path))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Valid[models.RecordTypeCustomer])
	assert.Equal(t, 1, result.Invalid[models.RecordTypeCustomer])
	assert.Len(t, store.inserted, 2)
	assert.NotEmpty(t, result.Logs)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, result.RunID, event.RunID)
	assert.Equal(t, models.RecordTypeCustomer, event.RecordType)
	assert.Len(t, event.Records, 2)
	assert.Equal(t, 1, event.InvalidCount)
}

func TestExecuteWithoutPublisher(t *testing.T) {
	path := writeFile(t, "customers.csv", "Company\nAcme Corp\n")

	store := &fakeStore{}
	proc := newTestProcessor(store, nil)

	result, err := proc.Execute(context.Background(), customerRun(path))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Valid[models.RecordTypeCustomer])
}

func TestExecuteMissingFile(t *testing.T) {
	proc := newTestProcessor(&fakeStore{}, nil)

	_, err := proc.Execute(context.Background(), customerRun(filepath.Join(t.TempDir(), "missing.csv")))
	assert.Error(t, err)
}
