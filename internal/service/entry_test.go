package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lexibase/internal/domain"
	"lexibase/internal/form"
	"lexibase/internal/repository/sqlite"
)

func newEntry(t *testing.T, batteries map[string]domain.Battery) (*EntryService, *sqlite.Repository, chan Event) {
	t.Helper()
	repo := newRepo(t)
	load(t, repo, austronesian())
	bus := NewEventBus()
	events := make(chan Event, 8)
	bus.Subscribe(events)
	return NewEntryService(repo, bus, zaptest.NewLogger(t), batteries), repo, events
}

func TestRowsFollowWordlist(t *testing.T) {
	svc, _, _ := newEntry(t, nil)

	f, err := svc.Form(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, f.Rows, 2)
	assert.Equal(t, "hand", f.Rows[0].WordLabel)
	assert.Equal(t, "eye", f.Rows[1].WordLabel)
	for _, row := range f.Rows {
		assert.Equal(t, int64(1), *row.Language)
		assert.Equal(t, int64(1), *row.Source)
		assert.ElementsMatch(t, []string{"language", "source"}, row.Hidden)
	}
}

func TestRowsFailOnMissingBatteryWord(t *testing.T) {
	svc, _, _ := newEntry(t, nil)

	// the fixture defines only "hand" and "eye"
	_, err := svc.Form(context.Background(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWordNotFound)
	assert.Contains(t, err.Error(), `"man"`)
}

func TestRowsFullBattery(t *testing.T) {
	svc, repo, _ := newEntry(t, nil)

	var words []domain.Word
	for _, slug := range domain.Shaw1986().Slugs {
		if slug == "hand" || slug == "eye" {
			continue
		}
		words = append(words, domain.Word{Word: slug, Slug: slug})
	}
	load(t, repo, &domain.Dataset{Words: words})

	f, err := svc.Form(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, f.Rows, 100)
	assert.Equal(t, "man", f.Rows[0].WordLabel)
	assert.Equal(t, "string bag", f.Rows[99].WordLabel)
}

func TestRowsConfiguredBattery(t *testing.T) {
	batteries := domain.Batteries(domain.Battery{Name: domain.BatteryShaw1986, Slugs: []string{"eye", "hand"}})
	svc, _, _ := newEntry(t, batteries)

	f, err := svc.Form(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, f.Rows, 2)
	assert.Equal(t, "eye", f.Rows[0].WordLabel)
}

func TestSubmitSavesAndCompletes(t *testing.T) {
	svc, _, events := newEntry(t, nil)
	ctx := context.Background()

	rows := []domain.EntryRow{
		{Language: int64p(1), Source: int64p(1), Word: 1, Entry: "ringa", SourceGloss: "hand, arm"},
		{Language: int64p(1), Source: int64p(1), Word: 2},
	}
	result, err := svc.Submit(ctx, 1, rows)
	require.NoError(t, err)
	assert.True(t, result.Done)
	require.Len(t, result.Saved, 1)
	assert.Equal(t, "ringa", result.Saved[0].Entry)
	assert.Equal(t, "hand, arm", result.Saved[0].SourceGloss)

	evt := <-events
	assert.Equal(t, EventLexiconSaved, evt.Type)

	task, err := svc.Task(ctx, 1)
	require.NoError(t, err)
	assert.True(t, task.Done)
	assert.Equal(t, []int64{result.Saved[0].ID}, task.Lexicon)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _ := newEntry(t, nil)
	ctx := context.Background()

	rows := []domain.EntryRow{
		{Language: int64p(1), Source: int64p(1), Word: 1, Entry: strings.Repeat("a", domain.MaxEntryLength+1)},
		{Language: int64p(2), Source: int64p(1), Word: 2, Entry: "mata"},
		{Language: int64p(1), Source: int64p(1), Word: 77, Entry: "x"},
		{Language: int64p(1), Source: int64p(1), Word: 1, Entry: "ok"},
	}
	_, err := svc.Submit(ctx, 1, rows)
	ve, ok := form.AsValidation(err)
	require.True(t, ok)

	assert.Equal(t, form.Errors{"entry": {form.MsgMaxLength(domain.MaxEntryLength)}}, ve.Rows[0])
	assert.Equal(t, form.Errors{"language": {form.MsgInvalidChoice}}, ve.Rows[1])
	assert.Equal(t, form.Errors{"word": {form.MsgInvalidChoice}}, ve.Rows[2])
	assert.NotContains(t, ve.Rows, 3)

	// nothing saved
	task, err := svc.Task(ctx, 1)
	require.NoError(t, err)
	assert.False(t, task.Done)
	assert.Empty(t, task.Lexicon)
}

func TestSubmitUnknownTask(t *testing.T) {
	svc, _, _ := newEntry(t, nil)
	_, err := svc.Submit(context.Background(), 99, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitFailsOnMissingBatteryWord(t *testing.T) {
	svc, _, events := newEntry(t, nil)
	ctx := context.Background()

	rows := []domain.EntryRow{{Language: int64p(1), Source: int64p(1), Word: 1, Entry: "ringa"}}
	result, err := svc.Submit(ctx, 2, rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWordNotFound)
	assert.Nil(t, result)
	assert.Empty(t, events)

	task, err := svc.Task(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, task.Lexicon)
}

func TestSubmitRejectsWordOutsideTask(t *testing.T) {
	svc, repo, _ := newEntry(t, nil)
	load(t, repo, &domain.Dataset{Words: []domain.Word{{Word: "tail", Slug: "tail"}}})
	tail, err := repo.GetWordBySlug(context.Background(), "tail")
	require.NoError(t, err)

	rows := []domain.EntryRow{{Language: int64p(1), Source: int64p(1), Word: tail.ID, Entry: "hiku"}}
	_, err = svc.Submit(context.Background(), 1, rows)
	ve, ok := form.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, form.Errors{"word": {form.MsgInvalidChoice}}, ve.Rows[0])
}

func TestSubmitTrimsWhitespace(t *testing.T) {
	svc, _, _ := newEntry(t, nil)

	rows := []domain.EntryRow{
		{Language: int64p(1), Source: int64p(1), Word: 1, Entry: "   "},
		{Language: int64p(1), Source: int64p(1), Word: 2, Entry: "  mata ", SourceGloss: " eye\t", Annotation: " "},
	}
	result, err := svc.Submit(context.Background(), 1, rows)
	require.NoError(t, err)
	require.Len(t, result.Saved, 1)
	assert.Equal(t, "mata", result.Saved[0].Entry)
	assert.Equal(t, "eye", result.Saved[0].SourceGloss)
	assert.Empty(t, result.Saved[0].Annotation)
	assert.Equal(t, int64(2), result.Saved[0].WordID)
}

func TestSubmitWhitespaceOnlySavesNothing(t *testing.T) {
	svc, _, _ := newEntry(t, nil)

	rows := []domain.EntryRow{{Language: int64p(1), Source: int64p(1), Word: 1, Entry: " \t "}}
	result, err := svc.Submit(context.Background(), 1, rows)
	require.NoError(t, err)
	assert.Empty(t, result.Saved)
}
