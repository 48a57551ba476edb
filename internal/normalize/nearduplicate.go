package normalize

import (
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// NearDuplicate flags two distinct normalized counterparty names that sit
// within a small edit distance of each other. These are reported for human
// review, never auto-merged: collapsing them silently would hide a possible
// false merge.
type NearDuplicate struct {
	A        string `json:"a"`
	B        string `json:"b"`
	Distance int    `json:"distance"`
}

// nearDuplicateMaxDistance is the edit-distance ceiling for flagging.
const nearDuplicateMaxDistance = 2

// FlagNearDuplicates compares every pair of distinct group names and returns
// the pairs likely produced by OCR punctuation noise rather than genuinely
// different counterparties.
func FlagNearDuplicates(names []string) []NearDuplicate {
	uniq := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" && !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	sort.Strings(uniq)

	var flagged []NearDuplicate
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			d := levenshtein.DistanceForStrings(
				[]rune(uniq[i]), []rune(uniq[j]), levenshtein.DefaultOptions)
			if d <= nearDuplicateMaxDistance {
				flagged = append(flagged, NearDuplicate{A: uniq[i], B: uniq[j], Distance: d})
			}
		}
	}
	return flagged
}
