package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lexibase/internal/domain"
	"lexibase/internal/form"
)

func newCognacy(t *testing.T) (*CognacyService, chan Event) {
	t.Helper()
	repo := newRepo(t)
	load(t, repo, austronesian())
	bus := NewEventBus()
	events := make(chan Event, 8)
	bus.Subscribe(events)
	return NewCognacyService(repo, bus, zaptest.NewLogger(t), 3), events
}

func fieldErrors(t *testing.T, err error) form.Errors {
	t.Helper()
	ve, ok := form.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return ve.Fields
}

func TestDoCognateValidation(t *testing.T) {
	svc, _ := newCognacy(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		values form.Values
		want   form.Errors
	}{
		{
			name:   "word is required",
			values: form.Values{},
			want:   form.Errors{"word": {form.MsgRequired}},
		},
		{
			name:   "unknown word",
			values: form.Values{"word": "99"},
			want:   form.Errors{"word": {form.MsgInvalidChoice}},
		},
		{
			name:   "clade outside the choices",
			values: form.Values{"word": "1", "clade": "Indo-European"},
			want:   form.Errors{"clade": {form.MsgInvalidChoice}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.DoCognate(ctx, tt.values)
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}
}

func TestDoCognateFiltersByClade(t *testing.T) {
	svc, _ := newCognacy(t)
	ctx := context.Background()

	all, err := svc.DoCognate(ctx, form.Values{"word": "1"})
	require.NoError(t, err)
	assert.Equal(t, "hand", all.Word.Slug)
	assert.Len(t, all.Candidates, 3)

	oceanic, err := svc.DoCognate(ctx, form.Values{"word": "1", "clade": "Austronesian, Oceanic"})
	require.NoError(t, err)
	require.Len(t, oceanic.Candidates, 2)
	for _, c := range oceanic.Candidates {
		assert.True(t, c.Language.InClade("Austronesian, Oceanic"), c.Language.Slug)
		assert.Len(t, c.CognateSets, 1)
	}
}

func TestChoices(t *testing.T) {
	svc, _ := newCognacy(t)
	choices, err := svc.Choices(context.Background())
	require.NoError(t, err)
	assert.Len(t, choices.Words, 2)
	assert.Equal(t, 3, choices.Clades.Total)
	assert.Equal(t, "ALL (3)", choices.Clades.Choices[0].Label)
	assert.True(t, choices.Clades.ContainsChoice("Austronesian, Philippine"))
}

func TestMergeValidation(t *testing.T) {
	svc, _ := newCognacy(t)
	ctx := context.Background()
	_, candidates, err := svc.MergeCandidates(ctx, "hand")
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	tests := []struct {
		name   string
		values form.Values
		want   form.Errors
	}{
		{
			name:   "both required",
			values: form.Values{},
			want:   form.Errors{"old": {form.MsgRequired}, "new": {form.MsgRequired}},
		},
		{
			name:   "old outside candidates",
			values: form.Values{"old": "42", "new": "1"},
			want:   form.Errors{"old": {form.MsgInvalidChoice}},
		},
		{
			name:   "garbage id",
			values: form.Values{"old": "one", "new": "1"},
			want:   form.Errors{"old": {form.MsgInvalidChoice}},
		},
		{
			name:   "same set twice",
			values: form.Values{"old": "2", "new": "2"},
			want:   form.Errors{"new": {"Cannot merge a cognate set into itself."}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Merge(ctx, tt.values, candidates)
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}
}

func TestMergeRestrictedToCandidates(t *testing.T) {
	svc, _ := newCognacy(t)
	ctx := context.Background()
	_, candidates, err := svc.MergeCandidates(ctx, "hand")
	require.NoError(t, err)

	// set 3 exists but is not offered
	_, err = svc.Merge(ctx, form.Values{"old": "3", "new": "1"}, candidates[:2])
	assert.Equal(t, form.Errors{"old": {form.MsgInvalidChoice}}, fieldErrors(t, err))
}

func TestMerge(t *testing.T) {
	svc, events := newCognacy(t)
	ctx := context.Background()
	_, candidates, err := svc.MergeCandidates(ctx, "hand")
	require.NoError(t, err)

	result, err := svc.Merge(ctx, form.Values{"old": "2", "new": "1"}, candidates)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Target.ID)
	assert.Equal(t, 1, result.Moved)
	assert.NotEmpty(t, result.RevisionID)

	evt := <-events
	assert.Equal(t, EventCognatesMerged, evt.Type)

	catalog := NewCatalogService(svc.repo, nil, 0, 0)
	_, err = catalog.CognateSet(ctx, 2)
	assert.True(t, errors.Is(err, ErrNotFound))

	merged, err := catalog.CognateSet(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, merged.Members, 2)

	_, remaining, err := svc.MergeCandidates(ctx, "hand")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestMergeCandidatesUnknownWord(t *testing.T) {
	svc, _ := newCognacy(t)
	_, _, err := svc.MergeCandidates(context.Background(), "tail")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCognateSetString(t *testing.T) {
	set := domain.CognateSet{ID: 4, Protoform: "*lima", Gloss: "hand"}
	assert.Equal(t, "4. *lima 'hand'", set.String())
}
