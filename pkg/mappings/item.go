package mappings

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/parse"
	"github.com/Ramsey-B/fern/pkg/pipeline"
)

// NewItemMapping parses the item export. Rows default to inventory items;
// the legacy "Type" column reroutes service rows to the service item record
// type. Items run no compose or prune, every parsed row is valid.
func NewItemMapping(deps Dependencies) Mapping {
	return Mapping{
		Name: MappingItem,
		Configs: []ingest.ParseConfig{{
			Definition: parse.Definition{
				RecordType: models.RecordTypeInventoryItem,
				Fields: models.FieldDictionaryParseOptions{
					"itemid":      {ColName: "Item", Normalizers: []string{"collapse_whitespace"}},
					"displayname": {ColName: "Description", Normalizers: []string{"collapse_whitespace"}},
					"upccode":     {ColName: "UPC", Normalizers: []string{"digits_only"}},
					"itemtype":    {ColName: "Type", DefaultValue: "Inventory"},
					"price":       {ColName: "Price"},
				},
				Overrides: deps.Overrides,
			},
			Filter: func(record *models.RecordOptions) *models.RecordOptions {
				if record.GetString("itemid") == "" {
					return nil
				}
				// The type column steers the record type; it is not itself
				// an output field.
				itemType := record.GetString("itemtype")
				delete(record.Fields, "itemtype")
				if strings.EqualFold(itemType, "service") {
					record.Type = models.RecordTypeServiceItem
				}
				return record
			},
		}},
		Pipeline: func(_ pipeline.ItemResolver) pipeline.Config {
			return pipeline.Config{}
		},
	}
}
