package transforms

import (
	"regexp"
	"strings"
)

// NameParts holds the pieces of a personal name. All fields empty when no
// name shape was recognized.
type NameParts struct {
	First  string `json:"first"`
	Middle string `json:"middle"`
	Last   string `json:"last"`
}

// IsEmpty reports whether nothing was extracted.
func (n NameParts) IsEmpty() bool {
	return n.First == "" && n.Middle == "" && n.Last == ""
}

// Full joins the non-empty parts with single spaces.
func (n NameParts) Full() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.First, n.Middle, n.Last} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

var (
	salutationPattern = regexp.MustCompile(`(?i)^(mr|mrs|ms|dr|prof)\.?\s+`)
	credentialPattern = regexp.MustCompile(`(?i)[,\s]+(md|phd|dds|jr|sr|ii|iii|iv)\.?$`)
	namePattern       = regexp.MustCompile(`^([A-Za-z][A-Za-z'.-]*)(?:\s+([A-Za-z][A-Za-z'.-]*))?\s+([A-Za-z][A-Za-z'-]+)$`)
	phonePattern      = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}(?:\s*(?:x|ext\.?)\s*\d+)?`)
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	parenthetical     = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// ExtractName parses "First Last" or "First Middle Last" out of free text,
// tolerating a salutation prefix and a credential/generation suffix.
// Returns the zero value on no match; never fails.
func ExtractName(text string) NameParts {
	cleaned := CollapseWhitespace(text)
	cleaned = salutationPattern.ReplaceAllString(cleaned, "")
	for {
		next := credentialPattern.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	// "Last, First [Middle]" shape
	if comma := strings.Index(cleaned, ","); comma > 0 {
		last := strings.TrimSpace(cleaned[:comma])
		rest := strings.Fields(strings.TrimSpace(cleaned[comma+1:]))
		if last != "" && len(rest) >= 1 && len(rest) <= 2 {
			parts := NameParts{First: rest[0], Last: last}
			if len(rest) == 2 {
				parts.Middle = rest[1]
			}
			return parts
		}
		return NameParts{}
	}

	match := namePattern.FindStringSubmatch(cleaned)
	if match == nil {
		return NameParts{}
	}

	return NameParts{First: match[1], Middle: match[2], Last: match[3]}
}

// ExtractPhone returns every phone-number-shaped substring in the text, or
// nil when there are none. Callers pick by index to split multi-value cells.
func ExtractPhone(text string) []string {
	matches := phonePattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	for i, m := range matches {
		matches[i] = strings.TrimSpace(m)
	}
	return matches
}

// ExtractEmail returns every email address in the text, or nil.
func ExtractEmail(text string) []string {
	matches := emailPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	return matches
}

// ExtractLeaf returns the leaf of a class-path value like
// "CLASS:PARENT (description)": the parenthetical suffix is dropped, then
// the substring after the last ':' is returned. Values without that
// structure come back cleaned but otherwise unchanged.
func ExtractLeaf(value string) string {
	out := parenthetical.ReplaceAllString(CollapseWhitespace(value), "")
	if idx := strings.LastIndex(out, ":"); idx >= 0 {
		out = out[idx+1:]
	}
	return strings.TrimSpace(out)
}
