package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Language represents a language or dialect under study
type Language struct {
	ID             int64     `json:"id" yaml:"-"`
	Slug           string    `json:"slug" yaml:"slug"`
	Language       string    `json:"language" yaml:"language"`
	Dialect        string    `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	ISOCode        string    `json:"isocode,omitempty" yaml:"isocode,omitempty"`
	Glottocode     string    `json:"glottocode,omitempty" yaml:"glottocode,omitempty"`
	Classification string    `json:"classification" yaml:"classification"`
	Information    string    `json:"information,omitempty" yaml:"information,omitempty"`
	Comment        string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Bibtex         string    `json:"bibtex,omitempty" yaml:"bibtex,omitempty"`
	Added          time.Time `json:"added" yaml:"-"`
}

// String returns the display name, including the dialect when present
func (l Language) String() string {
	if l.Dialect != "" {
		return l.Language + " (" + l.Dialect + ")"
	}
	return l.Language
}

// Taxa splits the classification into trimmed taxa, most general first.
// Classifications shorter than two characters carry no taxa.
func (l Language) Taxa() []string {
	return splitClassification(l.Classification)
}

// InClade reports whether the language falls under the given clade prefix.
// The empty clade matches every language.
func (l Language) InClade(clade string) bool {
	if clade == "" {
		return true
	}
	taxa := l.Taxa()
	want := strings.Split(clade, cladeSeparator)
	if len(want) > len(taxa) {
		return false
	}
	for i := range want {
		if taxa[i] != want[i] {
			return false
		}
	}
	return true
}

// Source represents a bibliographic source of lexical data
type Source struct {
	ID          int64     `json:"id" yaml:"-"`
	Slug        string    `json:"slug" yaml:"slug"`
	Author      string    `json:"author" yaml:"author"`
	Year        string    `json:"year,omitempty" yaml:"year,omitempty"`
	Reference   string    `json:"reference,omitempty" yaml:"reference,omitempty"`
	Bibtex      string    `json:"bibtex,omitempty" yaml:"bibtex,omitempty"`
	Comment     string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Information string    `json:"information,omitempty" yaml:"information,omitempty"`
	Added       time.Time `json:"added" yaml:"-"`
}

// String returns the short citation, e.g. "Smith (1991)"
func (s Source) String() string {
	if s.Year == "" {
		return s.Author
	}
	return s.Author + " (" + s.Year + ")"
}

func splitClassification(classification string) []string {
	if utf8.RuneCountInString(classification) < minClassificationLength {
		return nil
	}
	parts := strings.Split(classification, ",")
	taxa := make([]string, len(parts))
	for i, p := range parts {
		taxa[i] = strings.TrimSpace(p)
	}
	return taxa
}
