package mappings

import (
	"github.com/Ramsey-B/fern/pkg/evaluators"
	"github.com/Ramsey-B/fern/pkg/evaluators/address"
	"github.com/Ramsey-B/fern/pkg/evaluators/contact"
	"github.com/Ramsey-B/fern/pkg/evaluators/entity"
	"github.com/Ramsey-B/fern/pkg/evaluators/finance"
	"github.com/Ramsey-B/fern/pkg/evaluators/person"
	"github.com/Ramsey-B/fern/pkg/ingest"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/parse"
	"github.com/Ramsey-B/fern/pkg/pipeline"
)

// NewCustomerMapping parses the customer export. Each row produces a
// customer record and, when the row names a person at a company, a contact
// record. The pipeline clones the customer's contact details and address
// book onto the contact, matched by entity id.
func NewCustomerMapping(deps Dependencies) Mapping {
	customerDef := ingest.ParseConfig{
		Definition: entityDefinition(models.RecordTypeCustomer, "Customer", deps),
	}

	contactDef := ingest.ParseConfig{
		Definition: contactDefinition(deps),
		// A contact only exists when the row names an actual person.
		Filter: func(record *models.RecordOptions) *models.RecordOptions {
			if record.GetString(pipeline.FieldFirstName) == "" || record.GetString(pipeline.FieldLastName) == "" {
				return nil
			}
			return record
		},
	}

	return Mapping{
		Name:    MappingCustomer,
		Configs: []ingest.ParseConfig{customerDef, contactDef},
		Pipeline: func(_ pipeline.ItemResolver) pipeline.Config {
			return pipeline.Config{
				Clones: []pipeline.CloneRule{{
					Donor:      models.RecordTypeCustomer,
					Recipient:  models.RecordTypeContact,
					MatchField: pipeline.FieldEntityID,
					Fields:     []string{"phone", "email"},
					Sublists:   []string{pipeline.SublistAddressBook},
				}},
				Compose: map[models.RecordType]pipeline.ComposeFunc{
					models.RecordTypeCustomer: pipeline.NewEntityCompose(),
					models.RecordTypeContact:  pipeline.NewEntityCompose(),
				},
				Prune: map[models.RecordType]pipeline.PruneFunc{
					models.RecordTypeCustomer: pipeline.NewEntityPrune(deps.Logger),
					models.RecordTypeContact:  pipeline.NewEntityPrune(deps.Logger),
				},
			}
		},
	}
}

// entityDefinition builds the shared customer/vendor definition. entityColumn
// is the legacy export's primary name column ("Customer" or "Vendor").
func entityDefinition(recordType models.RecordType, entityColumn string, deps Dependencies) parse.Definition {
	fields := models.FieldDictionaryParseOptions{
		"entityid": {
			Evaluator: evaluators.EntityIDEvaluator,
			Args:      entity.EntityIDArguments{Column: entityColumn},
		},
		"companyname": {
			Evaluator: evaluators.EntityIDEvaluator,
			Args:      entity.EntityIDArguments{Column: "Company"},
		},
		"isperson": {
			Evaluator: evaluators.IsPersonEvaluator,
			Args:      entity.IsPersonArguments{EntityColumn: entityColumn, CompanyColumn: "Company"},
		},
		"firstname": {
			Evaluator: evaluators.FirstNameEvaluator,
			Args:      person.NamePartArguments{Column: "First Name", Fallbacks: []string{entityColumn}},
		},
		"lastname": {
			Evaluator: evaluators.LastNameEvaluator,
			Args:      person.NamePartArguments{Column: "Last Name", Fallbacks: []string{entityColumn}},
		},
		"phone": {
			Evaluator: evaluators.PhoneEvaluator,
			Args:      contact.ContactArguments{Column: "Phone", Fallbacks: []string{"Alt. Phone"}},
		},
		"email": {
			Evaluator: evaluators.EmailEvaluator,
			Args:      contact.ContactArguments{Column: "Email"},
		},
	}

	if len(deps.Terms) > 0 {
		fields["terms"] = models.FieldParseOptions{
			Evaluator: evaluators.TermsEvaluator,
			Args:      finance.TermsArguments{Column: "Terms", Terms: deps.Terms},
		}
	}

	return parse.Definition{
		RecordType: recordType,
		Fields:     fields,
		Sublists: models.SublistDictionaryParseOptions{
			pipeline.SublistAddressBook: {
				Lines: []models.SublistLineParseOptions{{
					"defaultshipping":    {DefaultValue: true},
					"defaultbilling":     {DefaultValue: true},
					"addressbookaddress": {Subrecord: addressSubrecord(entityColumn)},
				}},
			},
		},
		Overrides: deps.Overrides,
	}
}

func contactDefinition(deps Dependencies) parse.Definition {
	return parse.Definition{
		RecordType: models.RecordTypeContact,
		Fields: models.FieldDictionaryParseOptions{
			"entityid": {
				Evaluator: evaluators.EntityIDEvaluator,
				Args:      entity.EntityIDArguments{Column: "Customer"},
			},
			"isperson": {DefaultValue: true},
			"company": {
				Evaluator: evaluators.EntityIDEvaluator,
				Args:      entity.EntityIDArguments{Column: "Company"},
			},
			"firstname": {
				Evaluator: evaluators.FirstNameEvaluator,
				Args:      person.NamePartArguments{Column: "First Name"},
			},
			"lastname": {
				Evaluator: evaluators.LastNameEvaluator,
				Args:      person.NamePartArguments{Column: "Last Name"},
			},
		},
		Overrides: deps.Overrides,
	}
}

// addressSubrecord is the address shape shared by every entity mapping's
// address book.
func addressSubrecord(entityColumn string) *models.SubrecordParseOptions {
	return &models.SubrecordParseOptions{
		Type: models.RecordTypeAddress,
		Fields: models.FieldDictionaryParseOptions{
			"addr1": {
				Evaluator: evaluators.StreetEvaluator,
				Args:      address.StreetArguments{Columns: []string{"Street1"}},
			},
			"addr2": {
				Evaluator: evaluators.StreetEvaluator,
				Args:      address.StreetArguments{Columns: []string{"Street2"}},
			},
			"city": {ColName: "City", Normalizers: []string{"collapse_whitespace"}},
			"state": {
				Evaluator: evaluators.StateEvaluator,
				Args:      address.StateArguments{Columns: []string{"State"}},
			},
			"zip": {ColName: "Zip", Normalizers: []string{"collapse_whitespace"}},
			"country": {
				Evaluator: evaluators.CountryEvaluator,
				Args:      address.CountryArguments{Columns: []string{"Country"}, StateColumns: []string{"State"}},
			},
			"addressee": {
				Evaluator: evaluators.EntityIDEvaluator,
				Args:      entity.EntityIDArguments{Column: "Company"},
			},
			"attention": {
				Evaluator: evaluators.AttentionEvaluator,
				Args:      entity.AttentionArguments{EntityColumn: entityColumn, NameColumns: []string{"First Name", "Last Name"}},
			},
		},
	}
}
