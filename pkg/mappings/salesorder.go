package mappings

import (
	"github.com/Ramsey-B/fern/pkg/evaluators"
	"github.com/Ramsey-B/fern/pkg/evaluators/entity"
	"github.com/Ramsey-B/fern/pkg/evaluators/line"
	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/parse"
	"github.com/Ramsey-B/fern/pkg/pipeline"
)

// NewSalesOrderMapping parses the sales order export. Each row carries one
// item line; rows sharing a PO number converge on the same order downstream
// because every record carries an otherrefnum id option and every line a
// computed line id. Compose resolves SKUs to internal ids through the run's
// resolver; prune drops lines that never resolved and rejects orders left
// empty.
func NewSalesOrderMapping(deps Dependencies) Mapping {
	return Mapping{
		Name: MappingSalesOrder,
		Configs: []ingest.ParseConfig{{
			Definition: parse.Definition{
				RecordType: models.RecordTypeSalesOrder,
				IsDynamic:  true,
				Fields: models.FieldDictionaryParseOptions{
					"otherrefnum": {ColName: "PO Number"},
					"entity": {
						Evaluator: evaluators.EntityIDEvaluator,
						Args:      entity.EntityIDArguments{Column: "Customer"},
					},
					"trandate": {ColName: "Date"},
					"memo":     {ColName: "Memo"},
				},
				Sublists: models.SublistDictionaryParseOptions{
					pipeline.SublistItem: {
						Lines: []models.SublistLineParseOptions{{
							"item":        {ColName: "Item"},
							"quantity":    {ColName: "Quantity"},
							"rate":        {ColName: "Rate"},
							"description": {ColName: "Line Description"},
						}},
						LineID: &models.LineIDOptions{
							Evaluator: evaluators.ConcatLineEvaluator,
							Args:      line.ConcatArguments{Fields: []string{"item", "quantity"}},
						},
					},
				},
				Overrides: deps.Overrides,
			},
		}},
		Pipeline: func(resolver pipeline.ItemResolver) pipeline.Config {
			return pipeline.Config{
				Compose: map[models.RecordType]pipeline.ComposeFunc{
					models.RecordTypeSalesOrder: pipeline.NewSalesOrderCompose(resolver),
				},
				Prune: map[models.RecordType]pipeline.PruneFunc{
					models.RecordTypeSalesOrder: pipeline.NewSalesOrderPrune(deps.Logger),
				},
			}
		},
	}
}
