// Package recorddelete exposes the remote record delete procedure. The
// request carries idOptions and responseOptions as JSON-encoded strings; the
// handler resolves the record's internal id through the id search options in
// order, snapshots the requested fields before deleting, and always answers
// with a structured body carrying the run's log statements.
package recorddelete

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectolinq"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/pkg/logtrail"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

var validate = validator.New()

// Register registers the record delete route
func Register(g *echo.Group) {
	g.POST("", Delete)
}

// DeleteRequest is the transport shape. idOptions and responseOptions arrive
// as JSON strings and must be parsed before use.
type DeleteRequest struct {
	RecordType      string `json:"recordType" validate:"required"`
	IDOptions       string `json:"idOptions" validate:"required"`
	ResponseOptions string `json:"responseOptions"`
}

// DeleteResponse is returned for every outcome, success or failure. Logs
// carry the internal audit trail for the run.
type DeleteResponse struct {
	Status  int                   `json:"status"`
	Message string                `json:"message"`
	Error   string                `json:"error,omitempty"`
	Logs    []logtrail.Statement  `json:"logs"`
	Results []models.RecordResult `json:"results"`
	Rejects []any                 `json:"rejects,omitempty"`
}

// Delete resolves a record's internal id, snapshots it, and soft deletes it
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "recorddelete_handler.Delete")
	defer span.End()

	trail := logtrail.New()

	var req DeleteRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid request body",
			Error:   err.Error(),
		})
	}

	if err := validate.Struct(req); err != nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid request",
			Error:   err.Error(),
		})
	}

	recordType := models.RecordType(req.RecordType)

	options, err := parseIDOptions(req.IDOptions)
	if err != nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid idOptions",
			Error:   err.Error(),
			Rejects: []any{req.IDOptions},
		})
	}

	responseOptions, err := parseResponseOptions(req.ResponseOptions)
	if err != nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusBadRequest,
			Message: "invalid responseOptions",
			Error:   err.Error(),
			Rejects: []any{req.ResponseOptions},
		})
	}

	ctx, repo, err := ectoinject.GetContext[*record.Repository](ctx)
	if err != nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusInternalServerError,
			Message: "failed to get repository",
			Error:   err.Error(),
		})
	}

	trail.Audit("delete requested", fmt.Sprintf("record_type=%s options=%d", recordType, len(options)))

	internalID, err := resolveInternalID(ctx, repo, recordType, options, trail)
	if err != nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusInternalServerError,
			Message: "id search failed",
			Error:   err.Error(),
		})
	}
	if internalID == nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusNotFound,
			Message: fmt.Sprintf("no %s matched the id search options", recordType),
		})
	}

	staged, err := repo.GetByInternalID(ctx, recordType, *internalID)
	if err != nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusInternalServerError,
			Message: "failed to load record",
			Error:   err.Error(),
		})
	}
	if staged == nil {
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusNotFound,
			Message: fmt.Sprintf("%s with internal id %d not found", recordType, *internalID),
		})
	}

	// Snapshot before deleting so the caller still sees the record when the
	// delete itself fails.
	snapshot := buildSnapshot(staged, *internalID, responseOptions)

	if err := repo.Delete(ctx, recordType, *internalID); err != nil {
		trail.Error("delete failed", err)
		return respond(c, trail, DeleteResponse{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("failed to delete %s %d", recordType, *internalID),
			Error:   err.Error(),
			Results: []models.RecordResult{snapshot},
		})
	}

	trail.Audit("delete completed", fmt.Sprintf("record_type=%s internal_id=%d", recordType, *internalID))

	return respond(c, trail, DeleteResponse{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("deleted %s %d", recordType, *internalID),
		Results: []models.RecordResult{snapshot},
	})
}

func respond(c echo.Context, trail *logtrail.Trail, resp DeleteResponse) error {
	resp.Logs = trail.Statements()
	if resp.Results == nil {
		resp.Results = []models.RecordResult{}
	}
	return c.JSON(resp.Status, resp)
}

func parseIDOptions(raw string) ([]models.IDSearchOption, error) {
	var options []models.IDSearchOption
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, fmt.Errorf("idOptions must be a JSON array of id search options: %w", err)
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("idOptions must contain at least one id search option")
	}
	for i, option := range options {
		if err := validate.Struct(option); err != nil {
			return nil, fmt.Errorf("idOptions[%d]: %w", i, err)
		}
	}
	return options, nil
}

func parseResponseOptions(raw string) (*models.ResponseOptions, error) {
	if raw == "" {
		return nil, nil
	}
	var options models.ResponseOptions
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, fmt.Errorf("responseOptions must be a JSON object: %w", err)
	}
	return &options, nil
}

type recordSearcher interface {
	Search(ctx context.Context, recordType models.RecordType, option models.IDSearchOption) ([]record.StagedRecord, error)
}

// resolveInternalID tries each id search option in order. Exactly one match
// wins immediately. Multiple matches with a scalar idValue keep the first
// match as a tentative answer and keep searching; a later unique match
// replaces it. Zero matches move on to the next option. Returns nil when no
// option produced an answer.
func resolveInternalID(ctx context.Context, repo recordSearcher, recordType models.RecordType, options []models.IDSearchOption, trail *logtrail.Trail) (*int64, error) {
	var tentative *int64

	for i, option := range options {
		records, err := repo.Search(ctx, recordType, option)
		if err != nil {
			return nil, err
		}

		matches := withInternalIDs(records)
		switch {
		case len(matches) == 1:
			trail.Debug("id search matched", fmt.Sprintf("option=%d id_prop=%s internal_id=%d", i, option.IDProp, *matches[0]))
			return matches[0], nil
		case len(matches) > 1 && isScalar(option.IDValue):
			trail.Audit("ambiguous id search", fmt.Sprintf("option=%d id_prop=%s matches=%d, keeping first tentatively", i, option.IDProp, len(matches)))
			if tentative == nil {
				tentative = matches[0]
			}
		case len(matches) > 1:
			trail.Audit("ambiguous id search", fmt.Sprintf("option=%d id_prop=%s matches=%d for a list idValue, skipping", i, option.IDProp, len(matches)))
		default:
			trail.Debug("id search missed", fmt.Sprintf("option=%d id_prop=%s", i, option.IDProp))
		}
	}

	return tentative, nil
}

func withInternalIDs(records []record.StagedRecord) []*int64 {
	matched := ectolinq.Filter(records, func(r record.StagedRecord) bool {
		return r.InternalID != nil
	})
	return ectolinq.Map(matched, func(r record.StagedRecord) *int64 {
		return r.InternalID
	})
}

func isScalar(value any) bool {
	switch value.(type) {
	case []any, []string, []int, []float64:
		return false
	default:
		return true
	}
}

// Fields known to hold a nested subrecord value; the snapshot resolves these
// into the nested field dictionary instead of returning the wrapper.
var subrecordFields = map[string]bool{
	"billingaddress":  true,
	"shippingaddress": true,
}

// buildSnapshot copies the requested fields and sublist lines out of the
// staged record. With no response options only the internal id is returned.
func buildSnapshot(staged *record.StagedRecord, internalID int64, options *models.ResponseOptions) models.RecordResult {
	result := models.RecordResult{
		InternalID: internalID,
		Type:       staged.RecordType,
	}
	if options == nil {
		return result
	}

	if len(options.ResponseFields) > 0 {
		result.Fields = make(models.FieldDictionary)
		for _, fieldID := range options.ResponseFields {
			value, ok := staged.Fields.Data[fieldID]
			if !ok {
				continue
			}
			if subrecordFields[fieldID] {
				value = resolveSubrecord(value)
			}
			result.Fields[fieldID] = value
		}
	}

	if len(options.ResponseSublists) > 0 {
		result.Sublists = make(map[string][]models.FieldDictionary)
		for sublistID, fieldIDs := range options.ResponseSublists {
			lines, ok := staged.Sublists.Data[sublistID]
			if !ok {
				continue
			}
			out := make([]models.FieldDictionary, 0, len(lines))
			for _, line := range lines {
				fields := make(models.FieldDictionary)
				for _, fieldID := range fieldIDs {
					if v, ok := line.Fields[fieldID]; ok {
						fields[fieldID] = v
					}
				}
				out = append(out, fields)
			}
			result.Sublists[sublistID] = out
		}
	}

	return result
}

// resolveSubrecord unwraps a nested subrecord value into its field
// dictionary. Values survive a jsonb round trip as generic maps, so both the
// typed and decoded shapes are handled.
func resolveSubrecord(value any) any {
	switch v := value.(type) {
	case *models.SubrecordValue:
		return v.Fields
	case models.SubrecordValue:
		return v.Fields
	case map[string]any:
		if fields, ok := v["fields"].(map[string]any); ok {
			return fields
		}
	}
	return value
}
