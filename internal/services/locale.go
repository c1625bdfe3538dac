package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldText lowercases s, strips accents and trims spaces so that textual
// variants of a place name compare equal.
func FoldText(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

func containsFold(s, substr string) bool {
	return strings.Contains(FoldText(s), FoldText(substr))
}

// Replacement rewrites one textual variant into its canonical spelling.
type Replacement struct {
	Old string
	New string
}

// RewriteRule produces one geocoding query from a normalized address and a region bias.
// Applies may be nil, in which case the rule always fires.
type RewriteRule struct {
	Name    string
	Applies func(addr, bias string) bool
	Rewrite func(addr, bias string) string
}

// Locale bundles the region-specific normalization and query rewrite cascade.
type Locale struct {
	Replacements []Replacement
	// Street names that are avenues even when the manifest omits the street type.
	AvenueNames  []string
	AvenuePrefix string
	Rules        []RewriteRule
}

// Normalize trims addr and applies the locale's spelling rules.
func (l Locale) Normalize(addr string) string {
	s := strings.Join(strings.Fields(addr), " ")

	for _, r := range l.Replacements {
		s = replaceToken(s, r.Old, r.New)
	}

	if l.AvenuePrefix != "" {
		upper := strings.ToUpper(s)
		for _, av := range l.AvenueNames {
			if strings.HasPrefix(upper, strings.ToUpper(av)+" ") {
				s = l.AvenuePrefix + " " + s
				break
			}
		}
	}

	return strings.TrimSpace(s)
}

// replaceToken replaces old with repl where old stands as a whole token:
// preceded by the start or a separator and, unless old already ends in one,
// followed by the end or a separator.
func replaceToken(s, old, repl string) string {
	if old == "" {
		return s
	}

	var b strings.Builder
	for {
		i := indexToken(s, old)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(repl)
		s = s[i+len(old):]
	}
}

func indexToken(s, old string) int {
	offset := 0
	for {
		i := strings.Index(s[offset:], old)
		if i < 0 {
			return -1
		}
		i += offset

		before := i == 0 || isSeparator(s[i-1])
		end := i + len(old)
		after := end == len(s) || isSeparator(s[end]) || isSeparator(old[len(old)-1])
		if before && after {
			return i
		}
		offset = i + 1
	}
}

func isSeparator(c byte) bool {
	return c == ' ' || c == ',' || c == '.' || c == ';'
}

// Attempts expands addr into the ordered, de-duplicated list of queries to try.
func (l Locale) Attempts(addr, bias string) []string {
	bias = strings.TrimSpace(bias)

	seen := make(map[string]struct{}, len(l.Rules))
	out := make([]string, 0, len(l.Rules))
	for _, rule := range l.Rules {
		if rule.Applies != nil && !rule.Applies(addr, bias) {
			continue
		}

		q := strings.TrimSpace(rule.Rewrite(addr, bias))
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}

	return out
}

// SuffixRule appends a fixed context suffix.
func SuffixRule(name, suffix string) RewriteRule {
	return RewriteRule{
		Name:    name,
		Rewrite: func(addr, _ string) string { return addr + ", " + suffix },
	}
}

// BiasRule appends the caller's bias when the address does not already mention it.
// Biases matching any of skipAliases are left to a more specific rule.
func BiasRule(skipAliases ...string) RewriteRule {
	return RewriteRule{
		Name: "bias",
		Applies: func(addr, bias string) bool {
			return bias != "" && !containsFold(addr, bias) && !mentionsAny(bias, skipAliases)
		},
		Rewrite: func(addr, bias string) string { return addr + ", " + bias },
	}
}

// CanonicalBiasRule replaces a bias naming one of aliases with a canonical city name.
func CanonicalBiasRule(canonical string, aliases ...string) RewriteRule {
	return RewriteRule{
		Name: "canonical-bias",
		Applies: func(_, bias string) bool {
			return bias != "" && mentionsAny(bias, aliases)
		},
		Rewrite: func(addr, _ string) string { return addr + ", " + canonical },
	}
}

// CountryRule appends the country unless the address already names it,
// in which case the address is tried as-is.
func CountryRule(country string) RewriteRule {
	return RewriteRule{
		Name: "country",
		Rewrite: func(addr, _ string) string {
			if containsFold(addr, country) {
				return addr
			}
			return addr + ", " + country
		},
	}
}

// PrefixRule prepends a street type and appends a suffix.
func PrefixRule(name, prefix, suffix string) RewriteRule {
	return RewriteRule{
		Name:    name,
		Rewrite: func(addr, _ string) string { return prefix + " " + addr + ", " + suffix },
	}
}

// WhenMentionsRule appends suffix only for addresses mentioning one of names.
func WhenMentionsRule(name, suffix string, names ...string) RewriteRule {
	return RewriteRule{
		Name:    name,
		Applies: func(addr, _ string) bool { return mentionsAny(addr, names) },
		Rewrite: func(addr, _ string) string { return addr + ", " + suffix },
	}
}

// BareRule tries the normalized address on its own.
func BareRule() RewriteRule {
	return RewriteRule{
		Name:    "bare",
		Rewrite: func(addr, _ string) string { return addr },
	}
}

func mentionsAny(s string, names []string) bool {
	for _, n := range names {
		if containsFold(s, n) {
			return true
		}
	}
	return false
}

const caba = "Ciudad Autónoma de Buenos Aires"

// ArgentinaLocale targets manifests from the Buenos Aires metropolitan area.
func ArgentinaLocale() Locale {
	return Locale{
		Replacements: []Replacement{
			{Old: "AV ", New: "Avenida "},
			{Old: "Av. ", New: "Avenida "},
			{Old: "Gral. ", New: "General "},
			{Old: "San Martin", New: "San Martín"},
			{Old: "C.A.B.A.", New: caba},
			{Old: "CABA", New: caba},
		},
		AvenueNames: []string{
			"Cordoba", "Córdoba", "San Martin", "San Martín", "Rivadavia",
			"Corrientes", "Santa Fe", "Cabildo", "Libertador",
		},
		AvenuePrefix: "Avenida",
		Rules: []RewriteRule{
			CanonicalBiasRule(caba, "Autónoma", "Capital Federal"),
			BiasRule("Autónoma", "Capital Federal"),
			SuffixRule("city-country", caba+", Argentina"),
			CountryRule("Argentina"),
			PrefixRule("calle", "Calle", caba),
			WhenMentionsRule("san-martin-partido", "General San Martín, Buenos Aires", "San Martín"),
			WhenMentionsRule("san-martin-devoto", "Villa Devoto, Buenos Aires", "San Martín"),
			BareRule(),
		},
	}
}
