package transforms

import (
	"regexp"
	"strings"
)

// CaseOption selects a case normalization for Clean.
type CaseOption string

const (
	CaseNone  CaseOption = ""
	CaseUpper CaseOption = "upper"
	CaseLower CaseOption = "lower"
)

// Replacement is one ordered regex search/replace pair.
type Replacement struct {
	Pattern string `json:"pattern" validate:"required"`
	With    string `json:"with"`

	compiled *regexp.Regexp
}

// CleanOptions configures Clean. The zero value trims, collapses whitespace,
// and strips a single trailing period.
type CleanOptions struct {
	Case CaseOption `json:"case,omitempty"`

	// KeepTrailingPeriod disables trailing-period stripping entirely.
	KeepTrailingPeriod bool `json:"keep_trailing_period,omitempty"`

	// PreserveSuffixes lists abbreviations (compared case-insensitively,
	// without the period) whose trailing period is kept, e.g. "etc".
	PreserveSuffixes []string `json:"preserve_suffixes,omitempty"`

	// Replacements are applied in order after the steps above.
	Replacements []Replacement `json:"replacements,omitempty"`
}

// Clean trims and normalizes a raw cell value. Idempotent for any fixed
// options whose replacement patterns are themselves idempotent:
// Clean(Clean(s)) == Clean(s).
func Clean(value string, options ...CleanOptions) string {
	var opts CleanOptions
	if len(options) > 0 {
		opts = options[0]
	}

	out := CollapseWhitespace(value)

	switch opts.Case {
	case CaseUpper:
		out = strings.ToUpper(out)
	case CaseLower:
		out = strings.ToLower(out)
	}

	if !opts.KeepTrailingPeriod {
		out = stripTrailingPeriod(out, opts.PreserveSuffixes)
	}

	for i := range opts.Replacements {
		rep := &opts.Replacements[i]
		if rep.compiled == nil {
			compiled, err := regexp.Compile(rep.Pattern)
			if err != nil {
				continue
			}
			rep.compiled = compiled
		}
		out = rep.compiled.ReplaceAllString(out, rep.With)
	}

	return strings.TrimSpace(out)
}

func stripTrailingPeriod(s string, preserve []string) string {
	if !strings.HasSuffix(s, ".") {
		return s
	}

	trimmed := strings.TrimSuffix(s, ".")
	lastSpace := strings.LastIndexFunc(trimmed, func(r rune) bool { return r == ' ' })
	lastWord := strings.ToLower(trimmed[lastSpace+1:])
	for _, suffix := range preserve {
		if lastWord == strings.ToLower(strings.TrimSuffix(suffix, ".")) {
			return s
		}
	}

	return trimmed
}
