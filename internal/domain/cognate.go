package domain

import (
	"fmt"
	"time"
)

// Quality grades cognate sets and individual cognacy judgements
type Quality string

const (
	QualityUnassessed  Quality = "0"
	QualityPublished   Quality = "1"
	QualityAccepted    Quality = "2"
	QualityProblematic Quality = "9"
)

// Valid reports whether q is a known quality code
func (q Quality) Valid() bool {
	switch q {
	case QualityUnassessed, QualityPublished, QualityAccepted, QualityProblematic:
		return true
	}
	return false
}

// CognateSet groups lexicon entries descending from one protoform
type CognateSet struct {
	ID        int64     `json:"id"`
	Protoform string    `json:"protoform,omitempty"`
	Gloss     string    `json:"gloss,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	SourceID  *int64    `json:"source,omitempty"`
	Quality   Quality   `json:"quality"`
	Added     time.Time `json:"added"`
}

func (c CognateSet) String() string {
	return fmt.Sprintf("%d. %s '%s'", c.ID, c.Protoform, c.Gloss)
}

// Cognate is the join row between a Lexicon entry and a CognateSet
type Cognate struct {
	ID           int64     `json:"id"`
	LexiconID    int64     `json:"lexicon"`
	CognateSetID int64     `json:"cognateset"`
	SourceID     *int64    `json:"source,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	Flag         Quality   `json:"flag"`
	Added        time.Time `json:"added"`
}

func (c Cognate) String() string {
	return fmt.Sprintf("%d.%d", c.CognateSetID, c.ID)
}

// CognateNote is a free-text note on a word or a cognate set
type CognateNote struct {
	ID           int64  `json:"id"`
	WordID       *int64 `json:"word,omitempty"`
	CognateSetID *int64 `json:"cognateset,omitempty"`
	Note         string `json:"note"`
}

// Member is a cognate row expanded with its lexicon entry and language
type Member struct {
	Cognate  Cognate  `json:"cognate"`
	Lexicon  Lexicon  `json:"lexicon"`
	Language Language `json:"language"`
}

// CognateSetDetail is a cognate set with its members and notes
type CognateSetDetail struct {
	CognateSet
	Members []Member      `json:"members"`
	Notes   []CognateNote `json:"notes,omitempty"`
}

// Candidate is a lexicon entry offered for cognate assignment
type Candidate struct {
	Lexicon     Lexicon  `json:"lexicon"`
	Language    Language `json:"language"`
	CognateSets []int64  `json:"cognatesets"`
}

// MergeResult summarises a cognate set merge
type MergeResult struct {
	Target     CognateSet `json:"target"`
	RemovedID  int64      `json:"removed"`
	Moved      int        `json:"moved"`
	Duplicates int        `json:"duplicates"`
	RevisionID string     `json:"revision"`
}
