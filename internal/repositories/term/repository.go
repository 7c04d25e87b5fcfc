// Package term persists the payment-terms dictionary consumed by the terms
// evaluator.
package term

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const table = "payment_terms"

// Term is one payment term known to the target system.
type Term struct {
	Name       string    `db:"name"`
	InternalID int64     `db:"internal_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
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

// GetAll returns the full name-to-internal-id dictionary, shaped for the
// terms evaluator's arguments.
func (r *Repository) GetAll(ctx context.Context) (map[string]int64, error) {
	ctx, span := tracing.StartSpan(ctx, "term.Repository.GetAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("name", "internal_id", "created_at", "updated_at")
	sb.From(table)
	sb.OrderBy("name")

	query, args := sb.Build()
	var terms []Term
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list payment terms")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list payment terms")
	}

	dictionary := make(map[string]int64, len(terms))
	for _, t := range terms {
		dictionary[t.Name] = t.InternalID
	}
	return dictionary, nil
}

// Upsert records or refreshes a payment term.
func (r *Repository) Upsert(ctx context.Context, t Term) error {
	ctx, span := tracing.StartSpan(ctx, "term.Repository.Upsert")
	defer span.End()

	now := time.Now().UTC()
	ib := database.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols("name", "internal_id", "created_at", "updated_at")
	ib.Values(t.Name, t.InternalID, now, now)
	ub := ib.OnConflict("name")
	ub.Set(
		ub.Assign("internal_id", database.Excluded("internal_id")),
		ub.Assign("updated_at", now),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"name": t.Name}).Error("Failed to upsert payment term")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert payment term")
	}

	return nil
}
