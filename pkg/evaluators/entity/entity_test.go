package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestIsPersonEvaluator(t *testing.T) {
	eval, err := NewIsPersonEvaluator("entity_is_person", IsPersonArguments{
		EntityColumn:  "Customer",
		CompanyColumn: "Company",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		row      models.Row
		expected bool
	}{
		{name: "company keyword", row: models.Row{"Customer": "Acme Corporation"}, expected: false},
		{name: "company suffix", row: models.Row{"Customer": "Acme Corp"}, expected: false},
		{name: "company suffix with period", row: models.Row{"Customer": "Acme Corp."}, expected: false},
		{name: "two token name", row: models.Row{"Customer": "John Smith"}, expected: true},
		{name: "digits are not a person", row: models.Row{"Customer": "Store 42"}, expected: false},
		{name: "email is not a person", row: models.Row{"Customer": "orders@acme.example"}, expected: false},
		{name: "single token is a company", row: models.Row{"Customer": "Madonna"}, expected: false},
		{name: "company column mismatch", row: models.Row{"Customer": "John Smith", "Company": "Acme Widgets"}, expected: false},
		{name: "company column matches entity", row: models.Row{"Customer": "John Smith", "Company": "John Smith"}, expected: true},
		{name: "empty entity", row: models.Row{"Customer": ""}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := eval.Evaluate(context.Background(), tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestIsPersonEvaluatorHumanOverrides(t *testing.T) {
	eval, err := NewIsPersonEvaluator("entity_is_person", IsPersonArguments{
		EntityColumn:   "Customer",
		HumanOverrides: []string{"Acme Corp"},
	})
	require.NoError(t, err)

	// The override wins over every company signal.
	value, err := eval.Evaluate(context.Background(), models.Row{"Customer": "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, true, value)
}

func TestIsPersonEvaluatorRequiresEntityColumn(t *testing.T) {
	_, err := NewIsPersonEvaluator("entity_is_person", IsPersonArguments{})
	assert.Error(t, err)
}

func TestEntityIDEvaluator(t *testing.T) {
	eval, err := NewEntityIDEvaluator("entity_id", EntityIDArguments{Column: "Customer"})
	require.NoError(t, err)

	value, err := eval.Evaluate(context.Background(), models.Row{"Customer": "  Acme   Corp. "})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", value)
}

func TestAttentionEvaluator(t *testing.T) {
	eval, err := NewAttentionEvaluator("entity_attention", AttentionArguments{
		EntityColumn: "Customer",
		NameColumns:  []string{"Contact"},
	})
	require.NoError(t, err)

	t.Run("name differs from entity", func(t *testing.T) {
		value, err := eval.Evaluate(context.Background(), models.Row{"Customer": "Acme Corp", "Contact": "Jane Doe"})
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", value)
	})

	t.Run("name equal to entity is suppressed", func(t *testing.T) {
		value, err := eval.Evaluate(context.Background(), models.Row{"Customer": "Jane Doe", "Contact": "Jane Doe"})
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("no parsable name", func(t *testing.T) {
		value, err := eval.Evaluate(context.Background(), models.Row{"Customer": "Acme Corp", "Contact": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})
}

func TestAttentionEvaluatorComposesPartColumns(t *testing.T) {
	eval, err := NewAttentionEvaluator("entity_attention", AttentionArguments{
		EntityColumn: "Customer",
		NameColumns:  []string{"First Name", "Last Name"},
	})
	require.NoError(t, err)

	t.Run("parts compose into a full name", func(t *testing.T) {
		value, err := eval.Evaluate(context.Background(), models.Row{
			"Customer":   "Acme Corp",
			"First Name": "Jane",
			"Last Name":  "Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", value)
	})

	t.Run("composed name equal to entity is suppressed", func(t *testing.T) {
		value, err := eval.Evaluate(context.Background(), models.Row{
			"Customer":   "Jane Doe",
			"First Name": "Jane",
			"Last Name":  "Doe",
		})
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("lone part is not a name", func(t *testing.T) {
		value, err := eval.Evaluate(context.Background(), models.Row{
			"Customer":   "Acme Corp",
			"First Name": "Jane",
		})
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("whole name in one part column wins", func(t *testing.T) {
		value, err := eval.Evaluate(context.Background(), models.Row{
			"Customer":   "Acme Corp",
			"First Name": "Jane Doe",
			"Last Name":  "Smith",
		})
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", value)
	})
}
