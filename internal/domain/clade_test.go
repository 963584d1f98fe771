package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCladesAustronesianExample(t *testing.T) {
	got := Clades([]string{
		"Austronesian, Oceanic, Polynesian",
		"Austronesian, Oceanic, Fijian",
	}, 3)

	want := map[string]int{
		"Austronesian":                      2,
		"Austronesian, Oceanic":             2,
		"Austronesian, Oceanic, Polynesian": 1,
		"Austronesian, Oceanic, Fijian":     1,
	}
	if diff := cmp.Diff(want, got.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, got.Total)

	wantChoices := []Choice{
		{Value: "", Label: "ALL (2)"},
		{Value: "Austronesian", Label: "Austronesian (2)"},
		{Value: "Austronesian, Oceanic", Label: "Austronesian, Oceanic (2)"},
		{Value: "Austronesian, Oceanic, Fijian", Label: "Austronesian, Oceanic, Fijian (1)"},
		{Value: "Austronesian, Oceanic, Polynesian", Label: "Austronesian, Oceanic, Polynesian (1)"},
	}
	if diff := cmp.Diff(wantChoices, got.Choices); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestCladesShortClassificationQuirk(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		total int
	}{
		{"empty string skipped", []string{""}, 0},
		{"single character skipped", []string{"X"}, 0},
		{"single multibyte rune skipped", []string{"Ŋ"}, 0},
		{"two characters counted", []string{"Xy"}, 1},
		{"comma pair counted", []string{", "}, 1},
		{"mixed", []string{"", "A", "Papuan", "Papuan, Trans New Guinea"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clades(tt.input, DefaultCladeDepth)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, "", got.Choices[0].Value)
		})
	}
}

func TestCladesTotalMatchesLengthThreshold(t *testing.T) {
	inputs := []string{
		"", "a", "ab", "Trans New Guinea", "Sepik, Ndu", " ,", "Austronesian,Oceanic,,Western",
		"Torricelli", "Ŋa", "x,y,z,w,v",
	}
	want := 0
	for _, in := range inputs {
		if utf8.RuneCountInString(in) >= 2 {
			want++
		}
	}

	got := Clades(inputs, 2)
	assert.Equal(t, want, got.Total)
}

func TestCladesPrefixesPerLanguage(t *testing.T) {
	classifications := []string{
		"Austronesian",
		"Austronesian, Oceanic",
		"Austronesian,  Oceanic , Polynesian, Tongic",
		"Trans New Guinea, Madang, Croisilles, Pihom",
	}

	for _, depth := range []int{1, 2, 3, 5} {
		for _, c := range classifications {
			got := Clades([]string{c}, depth)
			taxa := splitClassification(c)
			assert.Len(t, got.Counts, min(depth, len(taxa)), "depth %d, %q", depth, c)

			for longer := range got.Counts {
				for shorter := range got.Counts {
					if len(longer) <= len(shorter) {
						continue
					}
					assert.True(t, strings.HasPrefix(longer, shorter), "%q should extend %q", longer, shorter)
				}
			}
		}
	}
}

func TestCladesEmptyTokensPreserved(t *testing.T) {
	got := Clades([]string{"Austronesian,,Oceanic"}, 3)
	assert.Equal(t, 1, got.Counts["Austronesian, "])
	assert.Equal(t, 1, got.Counts["Austronesian, , Oceanic"])
}

func TestCladeChoicesContainsChoice(t *testing.T) {
	c := Clades([]string{"Sepik, Ndu"}, 3)
	assert.True(t, c.ContainsChoice(""))
	assert.True(t, c.ContainsChoice("Sepik"))
	assert.True(t, c.ContainsChoice("Sepik, Ndu"))
	assert.False(t, c.ContainsChoice("Ndu"))
}

func TestLanguageInClade(t *testing.T) {
	lang := Language{Classification: "Austronesian,Oceanic , Polynesian"}

	require.Equal(t, []string{"Austronesian", "Oceanic", "Polynesian"}, lang.Taxa())
	assert.True(t, lang.InClade(""))
	assert.True(t, lang.InClade("Austronesian"))
	assert.True(t, lang.InClade("Austronesian, Oceanic"))
	assert.False(t, lang.InClade("Austronesian, Ocean"))
	assert.False(t, lang.InClade("Austronesian, Oceanic, Polynesian, Tongic"))

	short := Language{Classification: "A"}
	assert.Nil(t, short.Taxa())
	assert.True(t, short.InClade(""))
	assert.False(t, short.InClade("A"))
}
