package rarity

import (
	"sort"
	"strings"
)

// separator replaces a matched name so that cutting it out never joins the
// surrounding fragments into a new catalog name
const separator = "\x00"

// knownRarities is the canonical rarity catalog
var knownRarities = []string{
	"Common",
	"Short Print",
	"Super Short Print",
	"Rare",
	"Super Rare",
	"Ultra Rare",
	"Ultimate Rare",
	"Secret Rare",
	"Ultra Secret Rare",
	"Extra Secret Rare",
	"Prismatic Secret Rare",
	"Platinum Secret Rare",
	"Gold Secret Rare",
	"Quarter Century Secret Rare",
	"10000 Secret Rare",
	"Ghost Rare",
	"Gold Rare",
	"Premium Gold Rare",
	"Ghost/Gold Rare",
	"Platinum Rare",
	"Starlight Rare",
	"Collector's Rare",
	"Starfoil Rare",
	"Mosaic Rare",
	"Shatterfoil Rare",
	"Parallel Rare",
	"Normal Parallel Rare",
	"Super Parallel Rare",
	"Ultra Parallel Rare",
	"Secret Parallel Rare",
	"Extra Secret Parallel Rare",
	"Duel Terminal Normal Parallel Rare",
	"Duel Terminal Rare Parallel Rare",
	"Duel Terminal Super Parallel Rare",
	"Duel Terminal Ultra Parallel Rare",
}

// catalog holds knownRarities ordered longest first, ties alphabetical
var catalog = sortedCatalog(knownRarities)

func sortedCatalog(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// Catalog returns a copy of the rarity catalog in matching order
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// Decompose splits a free-text rarity label into canonical rarity tokens.
//
// Labels scraped from set listings frequently concatenate several rarities
// without a delimiter, e.g. "Ultra RareSecret Rare". The longest catalog name
// present is cut out first, so "Secret Rare" is never read as "Rare".
// Unmatched text is discarded.
func Decompose(raw string) []string {
	tokens, _ := decompose(raw)
	return tokens
}

// Residue returns the text left over after decomposition
func Residue(raw string) string {
	_, rest := decompose(raw)
	return rest
}

func decompose(raw string) ([]string, string) {
	var tokens []string
	remaining := raw
	for {
		name, idx := longestMatch(remaining)
		if idx < 0 {
			return tokens, remaining
		}
		tokens = append(tokens, name)
		remaining = remaining[:idx] + separator + remaining[idx+len(name):]
	}
}

// longestMatch returns the first catalog name found in text, which is the
// longest one because catalog is sorted by length
func longestMatch(text string) (string, int) {
	for _, name := range catalog {
		if idx := strings.Index(text, name); idx >= 0 {
			return name, idx
		}
	}
	return "", -1
}
