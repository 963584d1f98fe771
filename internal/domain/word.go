package domain

import "time"

// WordQuality grades how suitable a word is as a comparison item
type WordQuality string

const (
	WordQualityUnassessed  WordQuality = "0"
	WordQualityStable      WordQuality = "1"
	WordQualityObjectional WordQuality = "8"
	WordQualityUnsuitable  WordQuality = "9"
)

// Valid reports whether q is a known word quality
func (q WordQuality) Valid() bool {
	switch q {
	case WordQualityUnassessed, WordQualityStable, WordQualityObjectional, WordQualityUnsuitable:
		return true
	}
	return false
}

// Word is a canonical lexical concept such as "hand"
type Word struct {
	ID      int64       `json:"id" yaml:"-"`
	Word    string      `json:"word" yaml:"word"`
	Slug    string      `json:"slug" yaml:"slug"`
	Full    string      `json:"full,omitempty" yaml:"full,omitempty"`
	Comment string      `json:"comment,omitempty" yaml:"comment,omitempty"`
	Quality WordQuality `json:"quality" yaml:"quality,omitempty"`
	Added   time.Time   `json:"added" yaml:"-"`
}

// String returns "word (full gloss)" when a gloss is present
func (w Word) String() string {
	if w.Full != "" {
		return w.Word + " (" + w.Full + ")"
	}
	return w.Word
}

// WordSubset is a named grouping of words, e.g. a basic vocabulary list
type WordSubset struct {
	ID          int64  `json:"id"`
	Subset      string `json:"subset"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Words       []Word `json:"words"`
}

// Wordlist is the ordered list of target words for a wordlist task
type Wordlist struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Words []Word `json:"words"`
}
