package mappings

import (
	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/pipeline"
)

// NewVendorMapping parses the vendor export. Same shape as the customer
// export with "Vendor" as the primary name column; vendors produce no
// companion contact records.
func NewVendorMapping(deps Dependencies) Mapping {
	return Mapping{
		Name: MappingVendor,
		Configs: []ingest.ParseConfig{{
			Definition: entityDefinition(models.RecordTypeVendor, "Vendor", deps),
		}},
		Pipeline: func(_ pipeline.ItemResolver) pipeline.Config {
			return pipeline.Config{
				Compose: map[models.RecordType]pipeline.ComposeFunc{
					models.RecordTypeVendor: pipeline.NewEntityCompose(),
				},
				Prune: map[models.RecordType]pipeline.PruneFunc{
					models.RecordTypeVendor: pipeline.NewEntityPrune(deps.Logger),
				},
			}
		},
	}
}
