package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultCladeDepth is how many taxa deep clades are aggregated
	DefaultCladeDepth = 3

	cladeSeparator = ", "

	// Classifications shorter than this are skipped outright. The threshold
	// is a length check on the raw string, not a token count.
	minClassificationLength = 2
)

// Choice is a value/label pair offered by a selection field
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CladeChoices is the aggregated clade breakdown of a set of languages
type CladeChoices struct {
	Depth   int            `json:"depth"`
	Total   int            `json:"total"`
	Counts  map[string]int `json:"counts"`
	Choices []Choice       `json:"choices"`
}

// Clades builds cumulative classification prefixes up to depth taxa and
// counts how many languages fall under each. The first choice is the
// catch-all "ALL (n)" with an empty value.
func Clades(classifications []string, depth int) CladeChoices {
	counts := make(map[string]int)
	total := 0

	for _, classification := range classifications {
		if utf8.RuneCountInString(classification) < minClassificationLength {
			continue
		}
		taxa := splitClassification(classification)
		n := min(depth, len(taxa))
		for i := 0; i < n; i++ {
			counts[strings.Join(taxa[:i+1], cladeSeparator)]++
		}
		total++
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	choices := make([]Choice, 0, len(values)+1)
	choices = append(choices, Choice{Value: "", Label: fmt.Sprintf("ALL (%d)", total)})
	for _, v := range values {
		choices = append(choices, Choice{Value: v, Label: fmt.Sprintf("%s (%d)", v, counts[v])})
	}

	return CladeChoices{
		Depth:   depth,
		Total:   total,
		Counts:  counts,
		Choices: choices,
	}
}

// ContainsChoice reports whether value is one of the offered choices
func (c CladeChoices) ContainsChoice(value string) bool {
	for _, ch := range c.Choices {
		if ch.Value == value {
			return true
		}
	}
	return false
}
