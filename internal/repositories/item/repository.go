// Package item persists the SKU-to-internal-id dictionary used when
// composing sales order lines.
package item

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const table = "items"

// Item maps a legacy SKU to the target system's internal id.
type Item struct {
	SKU        string            `db:"sku"`
	InternalID int64             `db:"internal_id"`
	ItemType   models.RecordType `db:"item_type"`
	CreatedAt  time.Time         `db:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at"`
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

// GetBySKU returns the item for a SKU, or nil when unknown. Lookups are
// case-insensitive on the trimmed SKU.
func (r *Repository) GetBySKU(ctx context.Context, sku string) (*Item, error) {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.GetBySKU")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("sku", "internal_id", "item_type", "created_at", "updated_at")
	sb.From(table)
	sb.Where(sb.Equal("LOWER(sku)", strings.ToLower(strings.TrimSpace(sku))))
	sb.Limit(1)

	query, args := sb.Build()
	var item Item
	if err := r.db.GetContext(ctx, &item, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sku": sku}).Error("Failed to get item by sku")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get item")
	}

	return &item, nil
}

// Upsert records or refreshes a SKU mapping.
func (r *Repository) Upsert(ctx context.Context, item Item) error {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.Upsert")
	defer span.End()

	now := time.Now().UTC()
	ib := database.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols("sku", "internal_id", "item_type", "created_at", "updated_at")
	ib.Values(item.SKU, item.InternalID, string(item.ItemType), now, now)
	ub := ib.OnConflict("sku")
	ub.Set(
		ub.Assign("internal_id", database.Excluded("internal_id")),
		ub.Assign("item_type", database.Excluded("item_type")),
		ub.Assign("updated_at", now),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sku": item.SKU}).Error("Failed to upsert item")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert item")
	}

	return nil
}
