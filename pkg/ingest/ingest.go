// Package ingest streams delimited files through compiled parse definitions,
// producing record options grouped by record type.
package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/parse"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// FilterFunc post-processes a parsed record before it is collected. Returning
// nil drops the record.
type FilterFunc func(record *models.RecordOptions) *models.RecordOptions

// ParseConfig pairs a parse definition with an optional per-record filter.
type ParseConfig struct {
	Definition parse.Definition
	Filter     FilterFunc
}

// Results groups parsed records by record type.
type Results map[models.RecordType][]*models.RecordOptions

// Driver runs parse configurations against delimited files.
type Driver struct {
	logger ectologger.Logger
}

func NewDriver(logger ectologger.Logger) *Driver {
	return &Driver{logger: logger}
}

// ParseFile streams the file at path through every parse config. The
// delimiter is chosen from the file extension: tab for .tsv and .txt,
// comma otherwise.
//
// Configuration problems (a bad definition, a referenced column missing from
// the header) fail fast before any data row is read. A filter dropping a
// record for one config does not affect the row's other configs or any later
// row; a read error aborts the whole file.
func (d *Driver) ParseFile(ctx context.Context, path string, configs []ParseConfig) (Results, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapParseError(err)
	}
	defer file.Close()

	return d.Parse(ctx, file, filepath.Base(path), delimiterFor(path), configs)
}

// Parse streams delimited data from r. sourceName labels provenance on every
// produced record.
func (d *Driver) Parse(
	ctx context.Context,
	r io.Reader,
	sourceName string,
	delimiter rune,
	configs []ParseConfig,
) (Results, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.Parse")
	defer span.End()

	if len(configs) == 0 {
		return nil, errors.NewParseError("no parse configs provided")
	}

	interpreters := make([]*parse.Interpreter, 0, len(configs))
	for _, config := range configs {
		interpreter, err := parse.Compile(config.Definition, d.logger)
		if err != nil {
			return nil, err
		}
		interpreters = append(interpreters, interpreter)
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewParseError("file has no header row")
		}
		return nil, errors.WrapParseError(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	// Referenced columns are validated against the header before any data
	// row is parsed, so a misconfigured definition fails immediately.
	for i, interpreter := range interpreters {
		if err := validateColumns(header, interpreter.RequiredColumns()); err != nil {
			return nil, errors.WrapParseError(err).AddRecord(string(configs[i].Definition.RecordType))
		}
	}

	results := make(Results, len(configs))
	rowIndex := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParseError(err)
		}

		row := rowFrom(header, cells)

		for i, interpreter := range interpreters {
			record, err := interpreter.ParseRow(ctx, row, rowIndex)
			if err != nil {
				d.logger.WithContext(ctx).
					WithError(err).
					WithField("source", sourceName).
					WithField("row", rowIndex).
					Warn("row failed to parse, skipping")
				continue
			}
			record.Meta.SourceFile = sourceName

			if configs[i].Filter != nil {
				record = configs[i].Filter(record)
				if record == nil {
					continue
				}
			}

			// Filters may reroute a record to a different type, so the
			// bucket follows the record rather than the definition.
			results[record.Type] = append(results[record.Type], record)
		}

		rowIndex++
	}

	return results, nil
}

func delimiterFor(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		return '\t'
	default:
		return ','
	}
}

func validateColumns(header []string, required []string) error {
	present := make(map[string]struct{}, len(header))
	for _, column := range header {
		present[column] = struct{}{}
	}

	missing := ectolinq.Filter(required, func(column string) bool {
		_, ok := present[column]
		return !ok
	})
	if len(missing) > 0 {
		return errors.NewParseErrorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return nil
}

func rowFrom(header []string, cells []string) models.Row {
	row := make(models.Row, len(header))
	for i, column := range header {
		if i < len(cells) {
			row[column] = cells[i]
		} else {
			row[column] = ""
		}
	}
	return row
}
