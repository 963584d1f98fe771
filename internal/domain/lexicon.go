package domain

import (
	"fmt"
	"time"
)

// Field length limits shared by validation and the schema
const (
	MaxEntryLength = 128
	MaxRuleLength  = 32
)

// Lexicon is one attested form of a word in a language, as given by a source
type Lexicon struct {
	ID           int64     `json:"id"`
	LanguageID   int64     `json:"language"`
	SourceID     int64     `json:"source"`
	WordID       int64     `json:"word"`
	Entry        string    `json:"entry"`
	PhonEntry    string    `json:"phon_entry,omitempty"`
	SourceGloss  string    `json:"source_gloss,omitempty"`
	Annotation   string    `json:"annotation,omitempty"`
	Loan         bool      `json:"loan"`
	LoanSourceID *int64    `json:"loan_source,omitempty"`
	Added        time.Time `json:"added"`
}

func (l Lexicon) String() string {
	return fmt.Sprintf("%d-%s", l.ID, l.Entry)
}
