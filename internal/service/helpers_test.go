package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lexibase/internal/domain"
	"lexibase/internal/repository/sqlite"
)

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func load(t *testing.T, repo *sqlite.Repository, ds *domain.Dataset) {
	t.Helper()
	_, err := repo.ImportDataset(context.Background(), ds, &domain.Revision{Comment: "test"}, true)
	require.NoError(t, err)
}

// austronesian is three languages, one word and three cognate sets
func austronesian() *domain.Dataset {
	return &domain.Dataset{
		Languages: []domain.Language{
			{Slug: "maori", Language: "Maori", Classification: "Austronesian, Oceanic, Polynesian"},
			{Slug: "fijian", Language: "Fijian", Classification: "Austronesian, Oceanic, Fijian"},
			{Slug: "tagalog", Language: "Tagalog", Classification: "Austronesian, Philippine"},
		},
		Sources: []domain.Source{{Slug: "blust", Author: "Blust", Year: "2009"}},
		Words: []domain.Word{
			{Word: "hand", Slug: "hand"},
			{Word: "eye", Slug: "eye"},
		},
		Wordlists: []domain.WordlistRecord{{Name: "body", Words: []string{"hand", "eye"}}},
		Lexicon: []domain.LexiconRecord{
			{Key: "m", Language: "maori", Source: "blust", Word: "hand", Entry: "ringa"},
			{Key: "f", Language: "fijian", Source: "blust", Word: "hand", Entry: "liga"},
			{Key: "t", Language: "tagalog", Source: "blust", Word: "hand", Entry: "kamay"},
		},
		CognateSets: []domain.CognateSetRecord{
			{Protoform: "*lima", Gloss: "hand", Members: []domain.CognateRecord{{Lexicon: "m"}}},
			{Protoform: "*lima", Gloss: "five", Members: []domain.CognateRecord{{Lexicon: "f"}}},
			{Protoform: "*kamay", Gloss: "hand", Members: []domain.CognateRecord{{Lexicon: "t"}}},
		},
		Tasks: []domain.TaskRecord{
			{Name: "Maori body", Language: "maori", Source: "blust", Form: domain.FormWordlist, Wordlist: "body", Completable: true},
			{Name: "Maori Shaw", Language: "maori", Source: "blust", Form: domain.BatteryShaw1986},
		},
	}
}

func int64p(v int64) *int64 { return &v }
