package domain

import (
	"encoding/json"
	"time"
)

// Revision groups the object snapshots written by one import or merge
type Revision struct {
	ID        string    `json:"id"`
	Comment   string    `json:"comment"`
	Digest    string    `json:"digest,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Versions  []Version `json:"versions,omitempty"`
}

// Version is a serialized snapshot of one object inside a revision
type Version struct {
	Kind     string          `json:"kind"`
	ObjectID int64           `json:"object_id"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// NewVersion snapshots v as JSON
func NewVersion(kind string, id int64, v any) (Version, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Version{}, err
	}
	return Version{Kind: kind, ObjectID: id, Snapshot: data}, nil
}

// ImportResult counts what an import wrote and whether it was kept
type ImportResult struct {
	RevisionID string         `json:"revision"`
	Digest     string         `json:"digest"`
	Created    map[string]int `json:"created"`
	Committed  bool           `json:"committed"`
}

// Statistic is a labelled row count shown on the statistics page
type Statistic struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
