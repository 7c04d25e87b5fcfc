package models

// RecordType identifies a record type in the target ERP. The full set is an
// enumeration owned by the external system; only the types the migration
// touches are named here, the rest pass through as opaque strings.
type RecordType string

const (
	RecordTypeCustomer      RecordType = "customer"
	RecordTypeContact       RecordType = "contact"
	RecordTypeVendor        RecordType = "vendor"
	RecordTypeInventoryItem RecordType = "inventoryitem"
	RecordTypeServiceItem   RecordType = "serviceitem"
	RecordTypeSalesOrder    RecordType = "salesorder"
	RecordTypeInvoice       RecordType = "invoice"
	RecordTypeAddress       RecordType = "address"
)

func (r RecordType) String() string {
	return string(r)
}

// IsEntity reports whether the type is an entity record (customer, contact,
// vendor) as opposed to a transaction or item.
func (r RecordType) IsEntity() bool {
	switch r {
	case RecordTypeCustomer, RecordTypeContact, RecordTypeVendor:
		return true
	default:
		return false
	}
}
