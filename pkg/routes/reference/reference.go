// Package reference manages the lookup dictionaries migrations depend on:
// the SKU → internal id item dictionary and the payment term labels.
package reference

import (
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/item"
	"github.com/Ramsey-B/fern/internal/repositories/term"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Register registers reference data routes
func Register(g *echo.Group) {
	g.PUT("/items", UpsertItems)
	g.PUT("/terms", UpsertTerms)
	g.GET("/terms", ListTerms)
}

type ItemEntry struct {
	SKU        string `json:"sku" validate:"required"`
	InternalID int64  `json:"internal_id" validate:"required"`
	ItemType   string `json:"item_type,omitempty"`
}

type UpsertItemsRequest struct {
	Items []ItemEntry `json:"items" validate:"required,min=1,dive"`
}

// UpsertItems loads SKU → internal id entries into the item dictionary
func UpsertItems(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "reference_handler.UpsertItems")
	defer span.End()

	req, err := utils.BindRequest[UpsertItemsRequest](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return err
	}

	for _, entry := range req.Items {
		err := repo.Upsert(ctx, item.Item{
			SKU:        entry.SKU,
			InternalID: entry.InternalID,
			ItemType:   models.RecordType(entry.ItemType),
		})
		if err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]int{"upserted": len(req.Items)})
}

type TermEntry struct {
	Name       string `json:"name" validate:"required"`
	InternalID int64  `json:"internal_id" validate:"required"`
}

type UpsertTermsRequest struct {
	Terms []TermEntry `json:"terms" validate:"required,min=1,dive"`
}

// UpsertTerms loads payment term label → internal id entries
func UpsertTerms(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "reference_handler.UpsertTerms")
	defer span.End()

	req, err := utils.BindRequest[UpsertTermsRequest](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*term.Repository](ctx)
	if err != nil {
		return err
	}

	for _, entry := range req.Terms {
		err := repo.Upsert(ctx, term.Term{
			Name:       entry.Name,
			InternalID: entry.InternalID,
		})
		if err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]int{"upserted": len(req.Terms)})
}

// ListTerms returns the payment term dictionary
func ListTerms(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "reference_handler.ListTerms")
	defer span.End()

	ctx, repo, err := ectoinject.GetContext[*term.Repository](ctx)
	if err != nil {
		return err
	}

	terms, err := repo.GetAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"terms": terms})
}
