package contact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestPhoneEvaluator(t *testing.T) {
	evaluator, err := NewPhoneEvaluator("phone", ContactArguments{
		Column:    "Phone",
		Fallbacks: []string{"Alt. Phone"},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		row      models.Row
		expected string
	}{
		{
			name:     "main column",
			row:      models.Row{"Phone": "(312) 555-0142"},
			expected: "(312) 555-0142",
		},
		{
			name:     "fallback column",
			row:      models.Row{"Phone": "call anytime", "Alt. Phone": "312-555-0199"},
			expected: "312-555-0199",
		},
		{
			name:     "no phone anywhere",
			row:      models.Row{"Phone": "n/a", "Alt. Phone": ""},
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			value, err := evaluator.Evaluate(context.Background(), test.row)
			require.NoError(t, err)
			assert.Equal(t, test.expected, value)
		})
	}
}

func TestPhoneEvaluatorMatchIndex(t *testing.T) {
	// A crowded cell can feed two output fields: match 0 for the main
	// phone, match 1 for the fax.
	second, err := NewPhoneEvaluator("fax", ContactArguments{Column: "Phone", MatchIndex: 1})
	require.NoError(t, err)

	row := models.Row{"Phone": "office (312) 555-0142 fax (312) 555-0143"}
	value, err := second.Evaluate(context.Background(), row)
	require.NoError(t, err)
	assert.Equal(t, "(312) 555-0143", value)

	// Index past the matches falls back, then yields nothing.
	value, err = second.Evaluate(context.Background(), models.Row{"Phone": "(312) 555-0142"})
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestEmailEvaluator(t *testing.T) {
	evaluator, err := NewEmailEvaluator("email", ContactArguments{Column: "Email"})
	require.NoError(t, err)

	value, err := evaluator.Evaluate(context.Background(), models.Row{"Email": "reach us at info@acme.example please"})
	require.NoError(t, err)
	assert.Equal(t, "info@acme.example", value)

	value, err = evaluator.Evaluate(context.Background(), models.Row{"Email": "no email on file"})
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestContactEvaluatorRequiresColumn(t *testing.T) {
	_, err := NewPhoneEvaluator("phone", ContactArguments{})
	assert.Error(t, err)
}
