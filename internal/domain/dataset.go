package domain

import (
	"errors"
	"fmt"
)

// Dataset is a declarative batch of records applied by the importer.
// Records refer to each other by slug, or by key for lexicon entries.
type Dataset struct {
	Comment            string                    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Languages          []Language                `json:"languages,omitempty" yaml:"languages,omitempty"`
	Sources            []Source                  `json:"sources,omitempty" yaml:"sources,omitempty"`
	Words              []Word                    `json:"words,omitempty" yaml:"words,omitempty"`
	WordSubsets        []SubsetRecord            `json:"wordsubsets,omitempty" yaml:"wordsubsets,omitempty"`
	Wordlists          []WordlistRecord          `json:"wordlists,omitempty" yaml:"wordlists,omitempty"`
	Lexicon            []LexiconRecord           `json:"lexicon,omitempty" yaml:"lexicon,omitempty"`
	CognateSets        []CognateSetRecord        `json:"cognatesets,omitempty" yaml:"cognatesets,omitempty"`
	CorrespondenceSets []CorrespondenceSetRecord `json:"correspondencesets,omitempty" yaml:"correspondencesets,omitempty"`
	Tasks              []TaskRecord              `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// SubsetRecord declares a word subset by member slugs
type SubsetRecord struct {
	Subset      string   `json:"subset" yaml:"subset"`
	Slug        string   `json:"slug" yaml:"slug"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Words       []string `json:"words" yaml:"words"`
}

// WordlistRecord declares an ordered task wordlist by word slugs
type WordlistRecord struct {
	Name  string   `json:"name" yaml:"name"`
	Words []string `json:"words" yaml:"words"`
}

// LexiconRecord declares a lexicon entry. Key is a dataset-local alias
// that cognate members can refer to.
type LexiconRecord struct {
	Key         string `json:"key,omitempty" yaml:"key,omitempty"`
	Language    string `json:"language" yaml:"language"`
	Source      string `json:"source" yaml:"source"`
	Word        string `json:"word" yaml:"word"`
	Entry       string `json:"entry" yaml:"entry"`
	PhonEntry   string `json:"phon_entry,omitempty" yaml:"phon_entry,omitempty"`
	SourceGloss string `json:"source_gloss,omitempty" yaml:"source_gloss,omitempty"`
	Annotation  string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Loan        bool   `json:"loan,omitempty" yaml:"loan,omitempty"`
	LoanSource  string `json:"loan_source,omitempty" yaml:"loan_source,omitempty"`
}

// CognateSetRecord declares a cognate set and its members
type CognateSetRecord struct {
	Protoform string          `json:"protoform,omitempty" yaml:"protoform,omitempty"`
	Gloss     string          `json:"gloss,omitempty" yaml:"gloss,omitempty"`
	Comment   string          `json:"comment,omitempty" yaml:"comment,omitempty"`
	Source    string          `json:"source,omitempty" yaml:"source,omitempty"`
	Quality   Quality         `json:"quality,omitempty" yaml:"quality,omitempty"`
	Members   []CognateRecord `json:"members,omitempty" yaml:"members,omitempty"`
	Notes     []string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// CognateRecord declares one member of a cognate set by lexicon key
type CognateRecord struct {
	Lexicon string  `json:"lexicon" yaml:"lexicon"`
	Source  string  `json:"source,omitempty" yaml:"source,omitempty"`
	Comment string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Flag    Quality `json:"flag,omitempty" yaml:"flag,omitempty"`
}

// CorrespondenceSetRecord declares a correspondence set and its rules
type CorrespondenceSetRecord struct {
	Source  string                 `json:"source,omitempty" yaml:"source,omitempty"`
	Comment string                 `json:"comment,omitempty" yaml:"comment,omitempty"`
	Rules   []CorrespondenceRecord `json:"rules" yaml:"rules"`
}

// CorrespondenceRecord declares one rule by language slug
type CorrespondenceRecord struct {
	Language string `json:"language" yaml:"language"`
	Rule     string `json:"rule" yaml:"rule"`
}

// TaskRecord declares a data-entry task
type TaskRecord struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	Form        string `json:"form" yaml:"form"`
	Wordlist    string `json:"wordlist,omitempty" yaml:"wordlist,omitempty"`
	Completable bool   `json:"completable,omitempty" yaml:"completable,omitempty"`
}

// Size is the number of top-level records in the dataset
func (d *Dataset) Size() int {
	return len(d.Languages) + len(d.Sources) + len(d.Words) + len(d.WordSubsets) +
		len(d.Wordlists) + len(d.Lexicon) + len(d.CognateSets) +
		len(d.CorrespondenceSets) + len(d.Tasks)
}

// Validate checks required fields and dataset-local references
func (d *Dataset) Validate() error {
	var errs []error

	for i, l := range d.Languages {
		if l.Slug == "" || l.Language == "" {
			errs = append(errs, fmt.Errorf("languages[%d]: slug and language are required", i))
		}
	}
	for i, s := range d.Sources {
		if s.Slug == "" || s.Author == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: slug and author are required", i))
		}
	}
	for i, w := range d.Words {
		if w.Slug == "" || w.Word == "" {
			errs = append(errs, fmt.Errorf("words[%d]: slug and word are required", i))
		}
		if w.Quality != "" && !w.Quality.Valid() {
			errs = append(errs, fmt.Errorf("words[%d]: unknown quality %q", i, w.Quality))
		}
	}
	for i, s := range d.WordSubsets {
		if s.Slug == "" || s.Subset == "" {
			errs = append(errs, fmt.Errorf("wordsubsets[%d]: slug and subset are required", i))
		}
	}
	for i, w := range d.Wordlists {
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("wordlists[%d]: name is required", i))
		}
	}

	keys := make(map[string]bool)
	for i, l := range d.Lexicon {
		if l.Language == "" || l.Source == "" || l.Word == "" {
			errs = append(errs, fmt.Errorf("lexicon[%d]: language, source and word are required", i))
		}
		if l.Entry == "" || len([]rune(l.Entry)) > MaxEntryLength {
			errs = append(errs, fmt.Errorf("lexicon[%d]: entry must be 1-%d characters", i, MaxEntryLength))
		}
		if l.Key != "" {
			if keys[l.Key] {
				errs = append(errs, fmt.Errorf("lexicon[%d]: duplicate key %q", i, l.Key))
			}
			keys[l.Key] = true
		}
	}
	for i, c := range d.CognateSets {
		if c.Quality != "" && !c.Quality.Valid() {
			errs = append(errs, fmt.Errorf("cognatesets[%d]: unknown quality %q", i, c.Quality))
		}
		for j, m := range c.Members {
			if !keys[m.Lexicon] {
				errs = append(errs, fmt.Errorf("cognatesets[%d].members[%d]: unknown lexicon key %q", i, j, m.Lexicon))
			}
			if m.Flag != "" && !m.Flag.Valid() {
				errs = append(errs, fmt.Errorf("cognatesets[%d].members[%d]: unknown flag %q", i, j, m.Flag))
			}
		}
	}
	for i, c := range d.CorrespondenceSets {
		for j, r := range c.Rules {
			if r.Language == "" || r.Rule == "" || len([]rune(r.Rule)) > MaxRuleLength {
				errs = append(errs, fmt.Errorf("correspondencesets[%d].rules[%d]: language and a rule of at most %d characters are required", i, j, MaxRuleLength))
			}
		}
	}
	for i, t := range d.Tasks {
		if t.Name == "" || t.Form == "" {
			errs = append(errs, fmt.Errorf("tasks[%d]: name and form are required", i))
		}
		if t.Form == FormWordlist && t.Wordlist == "" {
			errs = append(errs, fmt.Errorf("tasks[%d]: wordlist form requires a wordlist", i))
		}
	}

	return errors.Join(errs...)
}
