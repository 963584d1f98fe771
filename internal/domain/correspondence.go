package domain

import "fmt"

// CorrespondenceSet groups recurring sound-change rules across languages
type CorrespondenceSet struct {
	ID       int64            `json:"id"`
	SourceID *int64           `json:"source,omitempty"`
	Comment  string           `json:"comment,omitempty"`
	Rules    []Correspondence `json:"rules,omitempty"`
}

func (c CorrespondenceSet) String() string {
	return "Correspondence Set: " + c.Comment
}

// Correspondence is one language's reflex within a correspondence set
type Correspondence struct {
	ID         int64  `json:"id"`
	LanguageID int64  `json:"language"`
	CorrSetID  int64  `json:"corrset"`
	Rule       string `json:"rule"`
}

func (c Correspondence) String() string {
	return fmt.Sprintf("Correspondence: /%s/", c.Rule)
}
