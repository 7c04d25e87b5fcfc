// Package parsetest exposes a dry-run endpoint: compile a posted parse
// definition and run it against sample rows without touching storage.
package parsetest

import (
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	ferrors "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/parse"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Register registers the parse test route
func Register(g *echo.Group) {
	g.POST("", TestParse)
}

type TestParseRequest struct {
	Definition parse.Definition `json:"definition" validate:"required"`
	Rows       []models.Row     `json:"rows" validate:"required,min=1"`
}

type TestParseResponse struct {
	RecordType      models.RecordType       `json:"record_type"`
	RequiredColumns []string                `json:"required_columns"`
	Records         []*models.RecordOptions `json:"records"`
}

// TestParse compiles the posted definition and parses the sample rows
func TestParse(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "parsetest_handler.TestParse")
	defer span.End()

	req, err := utils.BindRequest[TestParseRequest](c)
	if err != nil {
		return err
	}

	ctx, logger, err := ectoinject.GetContext[ectologger.Logger](ctx)
	if err != nil {
		return err
	}

	interpreter, err := parse.Compile(req.Definition, logger)
	if err != nil {
		if parseErr, ok := err.(*ferrors.ParseError); ok {
			return parseErr.ToHTTPError()
		}
		return err
	}

	records := make([]*models.RecordOptions, 0, len(req.Rows))
	for i, row := range req.Rows {
		record, err := interpreter.ParseRow(ctx, row, i)
		if err != nil {
			if parseErr, ok := err.(*ferrors.ParseError); ok {
				return parseErr.ToHTTPError()
			}
			return err
		}
		records = append(records, record)
	}

	return c.JSON(http.StatusOK, TestParseResponse{
		RecordType:      interpreter.RecordType(),
		RequiredColumns: interpreter.RequiredColumns(),
		Records:         records,
	})
}
