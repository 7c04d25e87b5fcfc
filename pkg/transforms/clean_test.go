package transforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		options  CleanOptions
		expected string
	}{
		{name: "trims and collapses whitespace", input: "  Acme   Corp  ", expected: "Acme Corp"},
		{name: "strips trailing period", input: "Acme Corp.", expected: "Acme Corp"},
		{name: "keeps interior periods", input: "A. B. Supply", expected: "A. B. Supply"},
		{name: "keep trailing period option", input: "Acme Corp.", options: CleanOptions{KeepTrailingPeriod: true}, expected: "Acme Corp."},
		{name: "preserved suffix keeps its period", input: "Tools etc.", options: CleanOptions{PreserveSuffixes: []string{"etc"}}, expected: "Tools etc."},
		{name: "unlisted suffix still stripped", input: "Acme Inc.", options: CleanOptions{PreserveSuffixes: []string{"etc"}}, expected: "Acme Inc"},
		{name: "upper case", input: "acme corp", options: CleanOptions{Case: CaseUpper}, expected: "ACME CORP"},
		{name: "lower case", input: "ACME CORP", options: CleanOptions{Case: CaseLower}, expected: "acme corp"},
		{name: "replacements run in order", input: "Acme & Sons", options: CleanOptions{Replacements: []Replacement{{Pattern: `&`, With: "and"}}}, expected: "Acme and Sons"},
		{name: "empty input", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input, tt.options))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Acme Corp.",
		"  spaced   out  ",
		"Tools etc.",
		"Dr. John Smith Jr.",
		"",
		"no changes needed",
	}

	for _, input := range inputs {
		once := Clean(input)
		assert.Equal(t, once, Clean(once), "Clean must be idempotent for %q", input)
	}

	opts := CleanOptions{Case: CaseLower, PreserveSuffixes: []string{"etc"}}
	for _, input := range inputs {
		once := Clean(input, opts)
		assert.Equal(t, once, Clean(once, opts))
	}
}

func TestNormalizerRegistry(t *testing.T) {
	normalize, ok := Get("digits_only")
	assert.True(t, ok)
	assert.Equal(t, "012345678905", normalize("0-12345-67890-5"))

	_, ok = Get("no_such_normalizer")
	assert.False(t, ok)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5551234567", DigitsOnly("(555) 123-4567"))
	assert.Equal(t, "", DigitsOnly("no digits"))
}

func TestAlphanumeric(t *testing.T) {
	assert.Equal(t, "SKU42", Alphanumeric("SKU-42!"))
}

func TestStripPunctuation(t *testing.T) {
	assert.Equal(t, "Acme  Sons", StripPunctuation("Acme & Sons."))
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		input    string
		expected NameParts
	}{
		{"Jane Doe", NameParts{First: "Jane", Last: "Doe"}},
		{"Jane Marie Doe", NameParts{First: "Jane", Middle: "Marie", Last: "Doe"}},
		{"Dr. John Smith", NameParts{First: "John", Last: "Smith"}},
		{"John Smith, MD", NameParts{First: "John", Last: "Smith"}},
		{"Doe, Jane", NameParts{First: "Jane", Last: "Doe"}},
		{"Doe, Jane Marie", NameParts{First: "Jane", Middle: "Marie", Last: "Doe"}},
		{"Acme", NameParts{}},
		{"", NameParts{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractName(tt.input))
		})
	}
}

func TestExtractPhone(t *testing.T) {
	assert.Equal(t, []string{"(555) 123-4567"}, ExtractPhone("call (555) 123-4567 anytime"))
	assert.Len(t, ExtractPhone("555-123-4567 / 555-987-6543"), 2)
	assert.Nil(t, ExtractPhone("no numbers here"))
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, []string{"jane@example.com"}, ExtractEmail("Jane Doe <jane@example.com>"))
	assert.Nil(t, ExtractEmail("not an email"))
}

func TestExtractLeaf(t *testing.T) {
	assert.Equal(t, "WIDGET", ExtractLeaf("PARTS:HARDWARE:WIDGET (blue)"))
	assert.Equal(t, "WIDGET", ExtractLeaf("WIDGET"))
	assert.Equal(t, "", ExtractLeaf("  "))
}

func TestStateCode(t *testing.T) {
	assert.Equal(t, "IL", StateCode("Illinois"))
	assert.Equal(t, "IL", StateCode("il"))
	assert.Equal(t, "", StateCode("Narnia"))
}

func TestCountryCode(t *testing.T) {
	assert.Equal(t, "US", CountryCode("United States"))
	assert.Equal(t, "US", CountryCode("usa"))
	assert.Equal(t, "CA", CountryCode("Canada"))
	assert.Equal(t, "", CountryCode("Atlantis"))
}
