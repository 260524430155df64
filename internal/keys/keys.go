package keys

import (
	"fmt"
	"strings"
)

// CardKey produces the display identity key for a card: "Name (Variant)".
// This is the key used everywhere stats are aggregated per card copy.
func CardKey(name, variant string) string {
	if strings.TrimSpace(variant) == "" {
		variant = "Standard"
	}
	return fmt.Sprintf("%s (%s)", name, variant)
}

// SplitCardKey reverses CardKey. Malformed keys return the whole string as
// the name with an empty variant.
func SplitCardKey(key string) (name, variant string) {
	open := strings.LastIndex(key, " (")
	if open < 0 || !strings.HasSuffix(key, ")") {
		return key, ""
	}
	return key[:open], key[open+2 : len(key)-1]
}

// CanonicalKey produces a stable lowercase key for DB lookups: names are
// trimmed, lower-cased and spaces replaced with underscores.
func CanonicalKey(name, variant string) string {
	norm := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	}
	v := norm(variant)
	if v == "" {
		v = "standard"
	}
	return norm(name) + "__" + v
}
