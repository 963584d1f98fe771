package domain

import "time"

// FormWordlist marks a task whose rows come from its wordlist. Any other
// form value names a fixed word battery.
const FormWordlist = "wordlist"

// Task is a unit of data-entry work: a language/source pair and the words
// to transcribe for it
type Task struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LanguageID  *int64    `json:"language,omitempty"`
	SourceID    *int64    `json:"source,omitempty"`
	Form        string    `json:"form"`
	WordlistID  *int64    `json:"wordlist,omitempty"`
	Done        bool      `json:"done"`
	Completable bool      `json:"completable"`
	Lexicon     []int64   `json:"lexicon,omitempty"`
	Added       time.Time `json:"added"`
}

// EntryRow is one prefilled data-entry row. Language and source are fixed
// by the task and hidden; the word is fixed and shown.
type EntryRow struct {
	Language    *int64   `json:"language"`
	Source      *int64   `json:"source"`
	Word        int64    `json:"word"`
	WordLabel   string   `json:"word_label,omitempty"`
	Entry       string   `json:"entry"`
	PhonEntry   string   `json:"phon_entry,omitempty"`
	SourceGloss string   `json:"source_gloss,omitempty"`
	Annotation  string   `json:"annotation,omitempty"`
	Hidden      []string `json:"hidden,omitempty"`
}

// EntryForm is the rendered set of rows for a task
type EntryForm struct {
	Task Task       `json:"task"`
	Rows []EntryRow `json:"rows"`
}

// EntryResult reports what a task submission saved
type EntryResult struct {
	Saved []Lexicon `json:"saved"`
	Done  bool      `json:"done"`
}
