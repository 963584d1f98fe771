package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexibase/internal/domain"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err, "failed to create test repository")
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// fixture is a small two-language dataset with one cognate set per word
func fixture() *domain.Dataset {
	return &domain.Dataset{
		Comment: "fixture",
		Languages: []domain.Language{
			{Slug: "maori", Language: "Maori", Classification: "Austronesian, Oceanic, Polynesian", Comment: "private", Bibtex: "@book{}"},
			{Slug: "fijian", Language: "Fijian", Classification: "Austronesian, Oceanic, Fijian"},
			{Slug: "tagalog", Language: "Tagalog", Classification: "Austronesian, Philippine"},
		},
		Sources: []domain.Source{
			{Slug: "greenhill-2008", Author: "Greenhill", Year: "2008", Information: "internal"},
		},
		Words: []domain.Word{
			{Word: "hand", Slug: "hand"},
			{Word: "eye", Slug: "eye"},
		},
		WordSubsets: []domain.SubsetRecord{
			{Subset: "Body", Slug: "body", Words: []string{"hand", "eye"}},
		},
		Wordlists: []domain.WordlistRecord{
			{Name: "short", Words: []string{"eye", "hand"}},
		},
		Lexicon: []domain.LexiconRecord{
			{Key: "m-hand", Language: "maori", Source: "greenhill-2008", Word: "hand", Entry: "ringa"},
			{Key: "f-hand", Language: "fijian", Source: "greenhill-2008", Word: "hand", Entry: "liga"},
			{Key: "t-hand", Language: "tagalog", Source: "greenhill-2008", Word: "hand", Entry: "kamay"},
			{Key: "m-eye", Language: "maori", Source: "greenhill-2008", Word: "eye", Entry: "kanohi"},
		},
		CognateSets: []domain.CognateSetRecord{
			{Protoform: "*lima", Gloss: "hand", Members: []domain.CognateRecord{{Lexicon: "m-hand"}, {Lexicon: "f-hand"}}, Notes: []string{"regular"}},
			{Protoform: "*kamay", Gloss: "hand", Members: []domain.CognateRecord{{Lexicon: "t-hand"}}},
		},
		CorrespondenceSets: []domain.CorrespondenceSetRecord{
			{Comment: "l/r", Rules: []domain.CorrespondenceRecord{{Language: "maori", Rule: "r"}, {Language: "fijian", Rule: "l"}}},
		},
		Tasks: []domain.TaskRecord{
			{Name: "Maori wordlist", Language: "maori", Source: "greenhill-2008", Form: domain.FormWordlist, Wordlist: "short", Completable: true},
		},
	}
}

// seed imports the fixture and returns the repository
func seed(t *testing.T) *Repository {
	t.Helper()
	repo := newTestRepo(t)
	_, err := repo.ImportDataset(context.Background(), fixture(), &domain.Revision{Comment: "seed"}, true)
	require.NoError(t, err)
	return repo
}

// setIDs returns the cognate set ids in creation order
func setIDs(t *testing.T, repo *Repository) []int64 {
	t.Helper()
	word, err := repo.GetWordBySlug(context.Background(), "hand")
	require.NoError(t, err)
	sets, err := repo.CognateSetsForWord(context.Background(), word.ID)
	require.NoError(t, err)
	ids := make([]int64, len(sets))
	for i, s := range sets {
		ids[i] = s.ID
	}
	return ids
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestNullHelpers(t *testing.T) {
	assert.Equal(t, "", nullToString(sql.NullString{}))
	assert.Equal(t, "x", nullToString(sql.NullString{String: "x", Valid: true}))
	assert.False(t, stringToNull("").Valid)
	assert.Nil(t, nullToInt64Ptr(sql.NullInt64{}))
	assert.Equal(t, int64(7), *nullToInt64Ptr(sql.NullInt64{Int64: 7, Valid: true}))
	assert.False(t, int64PtrToNull(nil).Valid)
	assert.True(t, nullToBool(sql.NullInt64{Int64: 1, Valid: true}))
	assert.False(t, nullToBool(sql.NullInt64{Int64: 1}))
}

func TestQualify(t *testing.T) {
	got := qualify("w", wordColumns)
	assert.Equal(t, "w.id, w.word, w.slug, w.full, w.comment, w.quality, w.added", got)
}

// ============================================================================
// Catalog Tests
// ============================================================================

func TestCatalog(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	langs, total, err := repo.ListLanguages(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, langs, 2)
	assert.Equal(t, "fijian", langs[0].Slug)

	lang, err := repo.GetLanguage(ctx, "maori")
	require.NoError(t, err)
	require.NotNil(t, lang)
	assert.Equal(t, "Austronesian, Oceanic, Polynesian", lang.Classification)
	assert.False(t, lang.Added.IsZero())

	missing, err := repo.GetLanguage(ctx, "klingon")
	require.NoError(t, err)
	assert.Nil(t, missing)

	classes, err := repo.ListClassifications(ctx)
	require.NoError(t, err)
	assert.Len(t, classes, 3)

	src, err := repo.GetSource(ctx, "greenhill-2008")
	require.NoError(t, err)
	require.NotNil(t, src)
	assert.Equal(t, "Greenhill (2008)", src.String())

	subset, err := repo.GetWordSubset(ctx, "body")
	require.NoError(t, err)
	require.NotNil(t, subset)
	assert.Len(t, subset.Words, 2)

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	want := map[string]int{"Number of Words": 2, "Number of Lexical Items": 4, "Number of Cognate Sets": 2}
	for _, s := range stats {
		if n, ok := want[s.Label]; ok {
			assert.Equal(t, n, s.Value, s.Label)
		}
	}
}

func TestWordlistOrder(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	task, err := repo.GetTask(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, task)
	require.NotNil(t, task.WordlistID)

	list, err := repo.GetWordlist(ctx, *task.WordlistID)
	require.NoError(t, err)
	var slugs []string
	for _, w := range list.Words {
		slugs = append(slugs, w.Slug)
	}
	if diff := cmp.Diff([]string{"eye", "hand"}, slugs); diff != "" {
		t.Errorf("wordlist order mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// Cognacy Tests
// ============================================================================

func TestCandidateLexicon(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()
	word, err := repo.GetWordBySlug(ctx, "hand")
	require.NoError(t, err)

	candidates, err := repo.CandidateLexicon(ctx, word.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	for _, c := range candidates {
		assert.Equal(t, word.ID, c.Lexicon.WordID)
		assert.Len(t, c.CognateSets, 1, c.Lexicon.Entry)
	}
}

func TestMergeCognateSets(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()
	ids := setIDs(t, repo)
	require.Len(t, ids, 2)
	oldID, newID := ids[0], ids[1]

	before, err := repo.GetCognateSet(ctx, oldID)
	require.NoError(t, err)
	target, err := repo.GetCognateSet(ctx, newID)
	require.NoError(t, err)
	want := len(before.Members) + len(target.Members)

	rev := &domain.Revision{Comment: "merge"}
	result, err := repo.MergeCognateSets(ctx, oldID, newID, rev)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Moved)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, oldID, result.RemovedID)
	assert.NotEmpty(t, result.RevisionID)

	gone, err := repo.GetCognateSet(ctx, oldID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	merged, err := repo.GetCognateSet(ctx, newID)
	require.NoError(t, err)
	assert.Len(t, merged.Members, want)
	require.Len(t, merged.Notes, 1)
	assert.Equal(t, "regular", merged.Notes[0].Note)

	stored, err := repo.GetRevision(ctx, result.RevisionID)
	require.NoError(t, err)
	require.Len(t, stored.Versions, 1)
	assert.Len(t, stored.Digest, 64)
	assert.Equal(t, versionsDigest(stored.Versions), stored.Digest)
	var snap struct {
		Members []domain.Member `json:"members"`
	}
	require.NoError(t, json.Unmarshal(stored.Versions[0].Snapshot, &snap))
	assert.Len(t, snap.Members, 2)
}

func TestMergeCognateSetsDropsDuplicates(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()
	ids := setIDs(t, repo)
	oldID, newID := ids[0], ids[1]

	// put maori "ringa" in both sets
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO cognates (lexicon_id, cognateset_id)
		SELECT lexicon_id, ? FROM cognates WHERE cognateset_id = ? LIMIT 1`, newID, oldID)
	require.NoError(t, err)

	result, err := repo.MergeCognateSets(ctx, oldID, newID, &domain.Revision{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Moved)
	assert.Equal(t, 1, result.Duplicates)

	merged, err := repo.GetCognateSet(ctx, newID)
	require.NoError(t, err)
	assert.Len(t, merged.Members, 3)
}

func TestMergeCognateSetsMissing(t *testing.T) {
	repo := seed(t)
	ids := setIDs(t, repo)

	result, err := repo.MergeCognateSets(context.Background(), 999, ids[0], &domain.Revision{})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCognatePairIsUnique(t *testing.T) {
	repo := seed(t)
	ids := setIDs(t, repo)

	_, err := repo.db.Exec(`
		INSERT INTO cognates (lexicon_id, cognateset_id)
		SELECT lexicon_id, cognateset_id FROM cognates WHERE cognateset_id = ? LIMIT 1`, ids[0])
	assert.Error(t, err)
}

// ============================================================================
// Task Tests
// ============================================================================

func TestSaveEntries(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	task, err := repo.GetTask(ctx, 1)
	require.NoError(t, err)
	word, err := repo.GetWordBySlug(ctx, "eye")
	require.NoError(t, err)

	entries := []domain.Lexicon{{
		LanguageID: *task.LanguageID,
		SourceID:   *task.SourceID,
		WordID:     word.ID,
		Entry:      "mata",
	}}
	saved, err := repo.SaveEntries(ctx, task.ID, entries, true)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotZero(t, saved[0].ID)
	assert.Equal(t, "mata", saved[0].Entry)

	task, err = repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, task.Done)
	assert.Equal(t, []int64{saved[0].ID}, task.Lexicon)
}

func TestSaveEntriesRollsBack(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	task, err := repo.GetTask(ctx, 1)
	require.NoError(t, err)
	entries := []domain.Lexicon{
		{LanguageID: *task.LanguageID, SourceID: *task.SourceID, WordID: 1, Entry: "ok"},
		{LanguageID: *task.LanguageID, SourceID: *task.SourceID, WordID: 999, Entry: "bad"},
	}
	_, err = repo.SaveEntries(ctx, task.ID, entries, true)
	require.Error(t, err)

	task, err = repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, task.Done)
	assert.Empty(t, task.Lexicon)
}

// ============================================================================
// Import Tests
// ============================================================================

func TestImportDryRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	result, err := repo.ImportDataset(ctx, fixture(), &domain.Revision{Comment: "dry"}, false)
	require.NoError(t, err)
	assert.False(t, result.Committed)
	assert.Equal(t, 3, result.Created["language"])
	assert.Equal(t, 3, result.Created["cognate"])

	_, total, err := repo.ListLanguages(ctx, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	rev, err := repo.GetRevision(ctx, result.RevisionID)
	require.NoError(t, err)
	assert.Nil(t, rev)
}

func TestImportCommitRecordsRevision(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rev := &domain.Revision{Comment: "load", Digest: "abc"}
	result, err := repo.ImportDataset(ctx, fixture(), rev, true)
	require.NoError(t, err)
	assert.True(t, result.Committed)

	stored, err := repo.GetRevision(ctx, result.RevisionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "abc", stored.Digest)
	assert.Len(t, stored.Versions, len(rev.Versions))
}

func TestImportUnknownReferenceRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ds := fixture()
	ds.Lexicon[0].Language = "klingon"
	_, err := repo.ImportDataset(ctx, ds, &domain.Revision{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "klingon")

	_, total, err := repo.ListLanguages(ctx, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestImportIsRepeatable(t *testing.T) {
	repo := seed(t)
	ctx := context.Background()

	ds := &domain.Dataset{Languages: []domain.Language{
		{Slug: "maori", Language: "Māori", Classification: "Austronesian, Oceanic, Polynesian, East"},
	}}
	_, err := repo.ImportDataset(ctx, ds, &domain.Revision{}, true)
	require.NoError(t, err)

	lang, err := repo.GetLanguage(ctx, "maori")
	require.NoError(t, err)
	assert.Equal(t, "Māori", lang.Language)

	_, total, err := repo.ListLanguages(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestListWordsOrderedByWord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ds := &domain.Dataset{Words: []domain.Word{
		{Word: "zebra", Slug: "a-zebra"},
		{Word: "arm", Slug: "z-arm"},
		{Word: "mouth", Slug: "m-mouth"},
	}}
	_, err := repo.ImportDataset(ctx, ds, &domain.Revision{}, true)
	require.NoError(t, err)

	words, err := repo.ListWords(ctx)
	require.NoError(t, err)
	var got []string
	for _, w := range words {
		got = append(got, w.Word)
	}
	assert.Equal(t, []string{"arm", "mouth", "zebra"}, got)
}
