package pipeline

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/models"
)

// NewEntityPrune validates customer, vendor, and contact records.
//
// A record flagged as a person must carry first and last names or it is
// rejected; a company record has stray name fields deleted outright. Address
// subrecords in body fields and the address book require addr1, and an
// attention line that repeats the addressee is removed.
func NewEntityPrune(logger ectologger.Logger) PruneFunc {
	return func(ctx context.Context, record *models.RecordOptions) *models.RecordOptions {
		if record.GetBool(FieldIsPerson) {
			if record.GetString(FieldFirstName) == "" || record.GetString(FieldLastName) == "" {
				logger.WithContext(ctx).
					WithField("record_type", string(record.Type)).
					WithField("fields", describeFields([]string{FieldFirstName, FieldLastName}, record.Fields)).
					Warn("person record missing name fields, rejecting")
				return nil
			}
		} else {
			// Name fields on a company record are deleted, not ignored, so
			// they cannot leak into the output payload.
			delete(record.Fields, FieldFirstName)
			delete(record.Fields, FieldMiddleName)
			delete(record.Fields, FieldLastName)
		}

		pruneBodyAddresses(record)
		pruneAddressBook(record)

		return record
	}
}

// NewSalesOrderPrune drops item lines whose SKU never resolved to an
// internal id and rejects orders left with no lines.
func NewSalesOrderPrune(logger ectologger.Logger) PruneFunc {
	return func(ctx context.Context, record *models.RecordOptions) *models.RecordOptions {
		lines := record.Sublists[SublistItem]
		kept := lines[:0]
		for _, line := range lines {
			if isNumeric(line.Fields[FieldItem]) {
				line.Line = len(kept)
				kept = append(kept, line)
				continue
			}
			logger.WithContext(ctx).
				WithField("record_type", string(record.Type)).
				WithField("item", line.Fields[FieldItem]).
				Warn("dropping item line without a resolved internal id")
		}

		if len(kept) == 0 {
			logger.WithContext(ctx).
				WithField("record_type", string(record.Type)).
				Warn("sales order has no resolvable item lines, rejecting")
			return nil
		}
		record.Sublists[SublistItem] = kept

		return record
	}
}

func pruneBodyAddresses(record *models.RecordOptions) {
	for fieldID, value := range record.Fields {
		subrecord, ok := value.(*models.SubrecordValue)
		if !ok || subrecord.Type != models.RecordTypeAddress {
			continue
		}
		if !pruneAddress(subrecord) {
			delete(record.Fields, fieldID)
		}
	}
}

func pruneAddressBook(record *models.RecordOptions) {
	lines, ok := record.Sublists[SublistAddressBook]
	if !ok {
		return
	}

	kept := lines[:0]
	for _, line := range lines {
		hasAddress := false
		for fieldID, value := range line.Fields {
			subrecord, ok := value.(*models.SubrecordValue)
			if !ok || subrecord.Type != models.RecordTypeAddress {
				continue
			}
			if !pruneAddress(subrecord) {
				delete(line.Fields, fieldID)
				continue
			}
			hasAddress = true
		}
		// Lines holding only default flags and no surviving address carry
		// nothing worth keeping.
		if hasAddress {
			line.Line = len(kept)
			kept = append(kept, line)
		}
	}

	if len(kept) == 0 {
		delete(record.Sublists, SublistAddressBook)
		return
	}
	record.Sublists[SublistAddressBook] = kept
}

// pruneAddress reports whether the address survives. An address without
// addr1 is dropped; a redundant attention key is deleted from a surviving
// address.
func pruneAddress(address *models.SubrecordValue) bool {
	addr1, _ := address.Fields[FieldAddr1].(string)
	if strings.TrimSpace(addr1) == "" {
		return false
	}

	attention, _ := address.Fields[FieldAttention].(string)
	addressee, _ := address.Fields[FieldAddressee].(string)
	if attention != "" && addressee != "" {
		if strings.EqualFold(attention, addressee) ||
			strings.Contains(strings.ToLower(addressee), strings.ToLower(attention)) {
			delete(address.Fields, FieldAttention)
		}
	}

	return true
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}
