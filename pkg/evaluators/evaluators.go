// Package evaluators catalogs every field evaluator the parse interpreter
// can resolve, and registers their factories.
package evaluators

import (
	"github.com/Ramsey-B/fern/pkg/evaluators/address"
	"github.com/Ramsey-B/fern/pkg/evaluators/contact"
	"github.com/Ramsey-B/fern/pkg/evaluators/entity"
	"github.com/Ramsey-B/fern/pkg/evaluators/finance"
	"github.com/Ramsey-B/fern/pkg/evaluators/line"
	"github.com/Ramsey-B/fern/pkg/evaluators/person"
	"github.com/Ramsey-B/fern/pkg/evaluators/registry"
)

const (
	// Entity Evaluator Keys
	EntityIDEvaluator  = "entity_id"
	IsPersonEvaluator  = "entity_is_person"
	AttentionEvaluator = "entity_attention"

	// Person Evaluator Keys
	FullNameEvaluator   = "person_full_name"
	FirstNameEvaluator  = "person_first_name"
	MiddleNameEvaluator = "person_middle_name"
	LastNameEvaluator   = "person_last_name"

	// Contact Evaluator Keys
	PhoneEvaluator = "contact_phone"
	EmailEvaluator = "contact_email"

	// Address Evaluator Keys
	StreetEvaluator  = "address_street"
	StateEvaluator   = "address_state"
	CountryEvaluator = "address_country"

	// Finance Evaluator Keys
	TermsEvaluator = "finance_terms"

	// Line Evaluator Keys
	ConcatLineEvaluator = "line_concat"
)

type EvaluatorDefinition struct {
	Key         string           `json:"key" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Factory     registry.Factory `json:"-"`
}

var EvaluatorDefinitions = map[string]EvaluatorDefinition{
	// Entity Evaluator Keys
	EntityIDEvaluator: {
		Key:         EntityIDEvaluator,
		Name:        "Entity ID",
		Description: "Cleans an entity id column into a normalized identifier",
		Factory:     entity.NewEntityIDEvaluator,
	},
	IsPersonEvaluator: {
		Key:         IsPersonEvaluator,
		Name:        "Is Person",
		Description: "Decides whether an entity represents a person or a company",
		Factory:     entity.NewIsPersonEvaluator,
	},
	AttentionEvaluator: {
		Key:         AttentionEvaluator,
		Name:        "Attention",
		Description: "Picks an attention-line name, suppressed when it repeats the entity id",
		Factory:     entity.NewAttentionEvaluator,
	},

	// Person Evaluator Keys
	FullNameEvaluator: {
		Key:         FullNameEvaluator,
		Name:        "Full Name",
		Description: "Extracts a person's full name from the first column that yields one",
		Factory:     person.NewFullNameEvaluator,
	},
	FirstNameEvaluator: {
		Key:         FirstNameEvaluator,
		Name:        "First Name",
		Description: "Extracts a person's first name",
		Factory:     person.NewFirstNameEvaluator,
	},
	MiddleNameEvaluator: {
		Key:         MiddleNameEvaluator,
		Name:        "Middle Name",
		Description: "Extracts a person's middle name or initial",
		Factory:     person.NewMiddleNameEvaluator,
	},
	LastNameEvaluator: {
		Key:         LastNameEvaluator,
		Name:        "Last Name",
		Description: "Extracts a person's last name",
		Factory:     person.NewLastNameEvaluator,
	},

	// Contact Evaluator Keys
	PhoneEvaluator: {
		Key:         PhoneEvaluator,
		Name:        "Phone",
		Description: "Extracts a phone number from a column with fallbacks",
		Factory:     contact.NewPhoneEvaluator,
	},
	EmailEvaluator: {
		Key:         EmailEvaluator,
		Name:        "Email",
		Description: "Extracts an email address from a column with fallbacks",
		Factory:     contact.NewEmailEvaluator,
	},

	// Address Evaluator Keys
	StreetEvaluator: {
		Key:         StreetEvaluator,
		Name:        "Street",
		Description: "Returns the first non-empty street line among the configured columns",
		Factory:     address.NewStreetEvaluator,
	},
	StateEvaluator: {
		Key:         StateEvaluator,
		Name:        "State",
		Description: "Resolves a state name or abbreviation to its code",
		Factory:     address.NewStateEvaluator,
	},
	CountryEvaluator: {
		Key:         CountryEvaluator,
		Name:        "Country",
		Description: "Resolves a country name to its code, defaulting to US when a valid US state is present",
		Factory:     address.NewCountryEvaluator,
	},

	// Finance Evaluator Keys
	TermsEvaluator: {
		Key:         TermsEvaluator,
		Name:        "Payment Terms",
		Description: "Resolves a payment term label to its internal id",
		Factory:     finance.NewTermsEvaluator,
	},
}

type LineEvaluatorDefinition struct {
	Key         string               `json:"key" validate:"required"`
	Name        string               `json:"name" validate:"required"`
	Description string               `json:"description" validate:"required"`
	Factory     registry.LineFactory `json:"-"`
}

var LineEvaluatorDefinitions = map[string]LineEvaluatorDefinition{
	ConcatLineEvaluator: {
		Key:         ConcatLineEvaluator,
		Name:        "Line Concat",
		Description: "Joins line field values into a stable line identity",
		Factory:     line.NewConcatLineEvaluator,
	},
}

// RegisterAll installs every evaluator factory into the registry. Call once
// at startup before compiling parse definitions.
func RegisterAll() {
	for key, definition := range EvaluatorDefinitions {
		registry.Evaluators[key] = definition.Factory
	}
	for key, definition := range LineEvaluatorDefinitions {
		registry.LineEvaluators[key] = definition.Factory
	}
}
