package services

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio scores the similarity of a and b from 0 to 100 as one minus the
// Levenshtein distance over the longer length. Comparison is case-insensitive
// and a value that contains the query scores 100.
func Ratio(query, value string) int {
	q := strings.ToLower(query)
	v := strings.ToLower(value)
	if q == "" && v == "" {
		return 100
	}
	if q != "" && strings.Contains(v, q) {
		return 100
	}
	longest := max(utf8.RuneCountInString(q), utf8.RuneCountInString(v))
	dist := levenshtein.ComputeDistance(q, v)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}
