package pipeline

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Field and sublist ids shared by the built-in compose and prune policies.
const (
	FieldEntityID    = "entityid"
	FieldExternalID  = "externalid"
	FieldIsPerson    = "isperson"
	FieldFirstName   = "firstname"
	FieldMiddleName  = "middlename"
	FieldLastName    = "lastname"
	FieldAddr1       = "addr1"
	FieldAttention   = "attention"
	FieldAddressee   = "addressee"
	FieldItem        = "item"
	FieldQuantity    = "quantity"
	FieldRate        = "rate"
	FieldOtherRefNum = "otherrefnum"

	SublistAddressBook = "addressbook"
	SublistItem        = "item"
)

// ItemResolver resolves an item's SKU text to the target system's internal
// id. A nil result with nil error means the SKU is unknown.
type ItemResolver interface {
	ResolveSKU(ctx context.Context, sku string) (*int64, error)
}

// NewEntityCompose derives identification search options for an entity
// record from its entity id and external id, in that candidate order.
func NewEntityCompose() ComposeFunc {
	return func(_ context.Context, record *models.RecordOptions) error {
		if entityID := record.GetString(FieldEntityID); entityID != "" {
			record.Meta.IDOptions = append(record.Meta.IDOptions, models.IDSearchOption{
				IDProp:         FieldEntityID,
				SearchOperator: models.OperatorIs,
				IDValue:        entityID,
			})
		}
		if externalID := record.GetString(FieldExternalID); externalID != "" {
			record.Meta.IDOptions = append(record.Meta.IDOptions, models.IDSearchOption{
				IDProp:         FieldExternalID,
				SearchOperator: models.OperatorIs,
				IDValue:        externalID,
			})
		}
		return nil
	}
}

// NewSalesOrderCompose resolves item-line SKUs to internal ids and applies
// numeric policy to quantity and rate. Unresolved SKUs are left as the
// original text for prune to judge; lookups run sequentially and each
// failure is reported without stopping the remaining lines.
func NewSalesOrderCompose(resolver ItemResolver) ComposeFunc {
	return func(ctx context.Context, record *models.RecordOptions) error {
		if refNum := record.GetString(FieldOtherRefNum); refNum != "" {
			record.Meta.IDOptions = append(record.Meta.IDOptions, models.IDSearchOption{
				IDProp:         FieldOtherRefNum,
				SearchOperator: models.OperatorIs,
				IDValue:        refNum,
			})
		}

		lines := record.Sublists[SublistItem]
		var firstErr error
		for i := range lines {
			if err := composeItemLine(ctx, resolver, &lines[i]); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
}

func composeItemLine(ctx context.Context, resolver ItemResolver, line *models.SublistLine) error {
	// Negative quantities and rates are invalid downstream; force them
	// positive and round to two decimal places.
	for _, fieldID := range []string{FieldQuantity, FieldRate} {
		if value, ok := line.Fields[fieldID]; ok {
			if number, ok := toFloat(value); ok {
				line.Fields[fieldID] = math.Round(math.Abs(number)*100) / 100
			}
		}
	}

	sku, ok := line.Fields[FieldItem].(string)
	if !ok || strings.TrimSpace(sku) == "" {
		return nil
	}

	internalID, err := resolver.ResolveSKU(ctx, sku)
	if err != nil {
		return errors.WrapParseError(err).AddField(FieldItem)
	}
	if internalID == nil {
		return errors.NewParseErrorf("sku %q did not resolve to an internal id", sku)
	}
	line.Fields[FieldItem] = *internalID

	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return number, true
	default:
		return 0, false
	}
}

// describeFields renders the expected-vs-received field lists used in prune
// warnings.
func describeFields(expected []string, fields models.FieldDictionary) string {
	received := make([]string, 0, len(fields))
	for fieldID := range fields {
		received = append(received, fieldID)
	}
	return fmt.Sprintf("expected %v, received %v", expected, received)
}
