// Package migration exposes the run trigger: POST a server-local export file
// and a mapping name, get back the run summary and its audit log.
package migration

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/term"
	"github.com/Ramsey-B/fern/pkg/logtrail"
	"github.com/Ramsey-B/fern/pkg/mappings"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/processor"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Register registers migration run routes
func Register(g *echo.Group) {
	g.GET("/mappings", ListMappings)
	g.POST("/run", Run)
}

type RunRequest struct {
	Mapping  string `json:"mapping" validate:"required"`
	FilePath string `json:"file_path" validate:"required"`
	// Overrides patches known-bad raw values for this run only.
	Overrides models.ValueMapping `json:"overrides,omitempty"`
}

type RunResponse struct {
	RunID   string                    `json:"run_id"`
	Valid   map[models.RecordType]int `json:"valid"`
	Invalid map[models.RecordType]int `json:"invalid"`
	Logs    []logtrail.Statement      `json:"logs"`
}

// ListMappings returns the available mapping names
func ListMappings(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"mappings": mappings.Names()})
}

// Run executes one migration run over a server-local file
func Run(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "migration_handler.Run")
	defer span.End()

	req, err := utils.BindRequest[RunRequest](c)
	if err != nil {
		return err
	}

	ctx, logger, err := ectoinject.GetContext[ectologger.Logger](ctx)
	if err != nil {
		return err
	}

	ctx, terms, err := ectoinject.GetContext[*term.Repository](ctx)
	if err != nil {
		return err
	}

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return err
	}

	// Terms are reloaded per run so a freshly upserted term is usable
	// without a restart.
	termIDs, err := terms.GetAll(ctx)
	if err != nil {
		return err
	}

	mapping, err := mappings.Get(req.Mapping, mappings.Dependencies{
		Terms:     termIDs,
		Overrides: req.Overrides,
		Logger:    logger,
	})
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := proc.Execute(ctx, processor.Run{
		FilePath: req.FilePath,
		Configs:  mapping.Configs,
		Pipeline: mapping.Pipeline,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RunResponse{
		RunID:   result.RunID,
		Valid:   result.Valid,
		Invalid: result.Invalid,
		Logs:    result.Logs,
	})
}
