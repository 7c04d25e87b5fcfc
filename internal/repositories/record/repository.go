// Package record persists staged records: the parsed output held locally so
// it can be searched, snapshotted, and deleted by internal id.
package record

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const table = "staged_records"

var columns = []string{
	"id", "record_type", "internal_id", "source_file",
	"fields", "sublists", "id_options", "created_at", "updated_at", "deleted_at",
}

// StagedRecord is the persisted row. Field and sublist dictionaries are
// stored as jsonb.
type StagedRecord struct {
	ID         string                                   `db:"id"`
	RecordType models.RecordType                        `db:"record_type"`
	InternalID *int64                                   `db:"internal_id"`
	SourceFile string                                   `db:"source_file"`
	Fields     database.JSONB[models.FieldDictionary]   `db:"fields"`
	Sublists   database.JSONB[models.SublistDictionary] `db:"sublists"`
	IDOptions  database.JSONB[[]models.IDSearchOption]  `db:"id_options"`
	CreatedAt  time.Time                                `db:"created_at"`
	UpdatedAt  time.Time                                `db:"updated_at"`
	DeletedAt  *time.Time                               `db:"deleted_at"`
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Insert stages a parsed record. The internal id is unknown at insert time;
// the upsert collaborator fills it in once the ERP assigns one.
func (r *Repository) Insert(ctx context.Context, record *models.RecordOptions) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.Insert")
	defer span.End()

	id := uuid.New().String()
	now := time.Now().UTC()

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols("id", "record_type", "source_file", "fields", "sublists", "id_options", "created_at", "updated_at")
	ib.Values(
		id, string(record.Type), record.Meta.SourceFile,
		database.NewJSONB(record.Fields), database.NewJSONB(record.Sublists),
		database.NewJSONB(record.Meta.IDOptions), now, now,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"record_type": string(record.Type), "source_file": record.Meta.SourceFile}).Error("Failed to insert staged record")
		return "", httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert staged record")
	}

	return id, nil
}

// SetInternalID records the ERP-assigned internal id for a staged record.
func (r *Repository) SetInternalID(ctx context.Context, id string, internalID int64) error {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.SetInternalID")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update(table)
	ub.Set(ub.Assign("internal_id", internalID), ub.Assign("updated_at", time.Now().UTC()))
	ub.Where(ub.Equal("id", id), ub.IsNull("deleted_at"))

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "internal_id": internalID}).Error("Failed to set internal id")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to set internal id")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "staged record %s not found", id)
	}

	return nil
}

// Search finds staged records of the given type matching one id search
// option. internalid matches the internal_id column; any other idProp
// matches the corresponding key in the fields jsonb.
func (r *Repository) Search(ctx context.Context, recordType models.RecordType, option models.IDSearchOption) ([]StagedRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.Search")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)

	where := []string{
		sb.Equal("record_type", string(recordType)),
		sb.IsNull("deleted_at"),
	}

	condition, err := buildIDCondition(sb, option)
	if err != nil {
		return nil, err
	}
	where = append(where, condition)
	sb.Where(where...)
	sb.OrderBy("updated_at DESC")
	sb.Limit(50)

	query, args := sb.Build()
	var records []StagedRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"record_type": string(recordType), "id_prop": option.IDProp}).Error("Failed to search staged records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search records")
	}

	return records, nil
}

// GetByInternalID loads one staged record, or nil when none exists.
func (r *Repository) GetByInternalID(ctx context.Context, recordType models.RecordType, internalID int64) (*StagedRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.GetByInternalID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(table)
	sb.Where(
		sb.Equal("record_type", string(recordType)),
		sb.Equal("internal_id", internalID),
		sb.IsNull("deleted_at"),
	)
	sb.Limit(1)

	query, args := sb.Build()
	var record StagedRecord
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"record_type": string(recordType), "internal_id": internalID}).Error("Failed to get staged record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get record")
	}

	return &record, nil
}

// Delete soft deletes the record with the given internal id.
func (r *Repository) Delete(ctx context.Context, recordType models.RecordType, internalID int64) error {
	ctx, span := tracing.StartSpan(ctx, "record.Repository.Delete")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update(table)
	ub.Set(ub.Assign("deleted_at", time.Now().UTC()))
	ub.Where(
		ub.Equal("record_type", string(recordType)),
		ub.Equal("internal_id", internalID),
		ub.IsNull("deleted_at"),
	)

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"record_type": string(recordType), "internal_id": internalID}).Error("Failed to delete staged record")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete record")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "%s with internal id %d not found", recordType, internalID)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"record_type": string(recordType), "internal_id": internalID}).Info("Deleted staged record")
	return nil
}

func buildIDCondition(sb *sqlbuilder.SelectBuilder, option models.IDSearchOption) (string, error) {
	if option.IDProp == "internalid" {
		switch option.SearchOperator {
		case models.OperatorAnyOf:
			return sb.In("internal_id", flattenValues(option.IDValue)...), nil
		case models.OperatorIs:
			return sb.Equal("internal_id", option.IDValue), nil
		default:
			return "", httperror.NewHTTPErrorf(http.StatusBadRequest, "operator %q is not valid for internalid", option.SearchOperator)
		}
	}

	field := fmt.Sprintf("fields ->> '%s'", strings.ReplaceAll(option.IDProp, "'", ""))
	switch option.SearchOperator {
	case models.OperatorAnyOf:
		return sb.In(field, stringValues(option.IDValue)...), nil
	case models.OperatorIs:
		return sb.Equal(field, fmt.Sprint(option.IDValue)), nil
	case models.OperatorContains:
		return sb.Like(field, "%"+fmt.Sprint(option.IDValue)+"%"), nil
	default:
		return "", httperror.NewHTTPErrorf(http.StatusBadRequest, "unknown search operator %q", option.SearchOperator)
	}
}

func flattenValues(value any) []any {
	if list, ok := value.([]any); ok {
		return list
	}
	return []any{value}
}

func stringValues(value any) []any {
	flat := flattenValues(value)
	out := make([]any, len(flat))
	for i, v := range flat {
		out[i] = fmt.Sprint(v)
	}
	return out
}
