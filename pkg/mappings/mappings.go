// Package mappings holds the active migration configurations: the parse
// definitions for each legacy export format and the pipeline each run
// executes. One mapping per source file shape; superseded variants are not
// kept around.
package mappings

import (
	"fmt"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/pipeline"
)

// Mapping bundles everything one migration run needs: the parse configs for
// the file and a pipeline builder receiving the run's SKU resolver.
type Mapping struct {
	Name     string
	Configs  []ingest.ParseConfig
	Pipeline func(resolver pipeline.ItemResolver) pipeline.Config
}

// Dependencies are the injected inputs mappings are built from. Terms and
// Overrides come from storage and configuration, never from constants baked
// into this package.
type Dependencies struct {
	// Terms maps payment term labels (e.g. "Net 30") to internal ids.
	Terms map[string]int64
	// Overrides patches known-bad raw source values before parsing.
	Overrides models.ValueMapping
	Logger    ectologger.Logger
}

const (
	MappingCustomer   = "customer"
	MappingVendor     = "vendor"
	MappingItem       = "item"
	MappingSalesOrder = "salesorder"
)

// Names lists the available mappings in a stable order.
func Names() []string {
	return []string{MappingCustomer, MappingVendor, MappingItem, MappingSalesOrder}
}

// Get returns the mapping registered under name.
func Get(name string, deps Dependencies) (Mapping, error) {
	switch name {
	case MappingCustomer:
		return NewCustomerMapping(deps), nil
	case MappingVendor:
		return NewVendorMapping(deps), nil
	case MappingItem:
		return NewItemMapping(deps), nil
	case MappingSalesOrder:
		return NewSalesOrderMapping(deps), nil
	default:
		return Mapping{}, fmt.Errorf("unknown mapping %q", name)
	}
}
