package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lexibase/internal/domain"
	"lexibase/internal/form"
	"lexibase/internal/repository"
)

// CognacyService runs the cognate assignment and merge workflows
type CognacyService struct {
	repo       repository.Repository
	eventBus   *EventBus
	logger     *zap.Logger
	cladeDepth int
}

// NewCognacyService creates a cognacy service. cladeDepth bounds the clade
// filter choices; values below 1 use domain.DefaultCladeDepth.
func NewCognacyService(repo repository.Repository, eventBus *EventBus, logger *zap.Logger, cladeDepth int) *CognacyService {
	if cladeDepth < 1 {
		cladeDepth = domain.DefaultCladeDepth
	}
	return &CognacyService{
		repo:       repo,
		eventBus:   eventBus,
		logger:     named(logger, "cognacy"),
		cladeDepth: cladeDepth,
	}
}

// AssignChoices are the selectable values of the assignment form
type AssignChoices struct {
	Words  []domain.Word       `json:"words"`
	Clades domain.CladeChoices `json:"clades"`
}

// Assignment is the outcome of a valid assignment form: the entries for a
// word, narrowed to one clade
type Assignment struct {
	Word       domain.Word        `json:"word"`
	Clade      string             `json:"clade"`
	Candidates []domain.Candidate `json:"candidates"`
}

// Choices returns the words and clade choices the assignment form offers
func (s *CognacyService) Choices(ctx context.Context) (*AssignChoices, error) {
	words, err := s.repo.ListWords(ctx)
	if err != nil {
		return nil, err
	}
	clades, err := s.clades(ctx)
	if err != nil {
		return nil, err
	}
	return &AssignChoices{Words: words, Clades: clades}, nil
}

func (s *CognacyService) clades(ctx context.Context) (domain.CladeChoices, error) {
	classifications, err := s.repo.ListClassifications(ctx)
	if err != nil {
		return domain.CladeChoices{}, err
	}
	return domain.Clades(classifications, s.cladeDepth), nil
}

// DoCognate validates the assignment form (a required "word" and an
// optional "clade") and returns the candidate entries it selects
func (s *CognacyService) DoCognate(ctx context.Context, values form.Values) (*Assignment, error) {
	errs := form.Errors{}

	var word *domain.Word
	if id, ok := values.ID("word", errs); ok {
		w, err := s.repo.GetWord(ctx, id)
		if err != nil {
			return nil, err
		}
		if w == nil {
			errs.Add("word", form.MsgInvalidChoice)
		}
		word = w
	}

	clade := values.Get("clade")
	if clade != "" {
		choices, err := s.clades(ctx)
		if err != nil {
			return nil, err
		}
		if !choices.ContainsChoice(clade) {
			errs.Add("clade", form.MsgInvalidChoice)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	all, err := s.repo.CandidateLexicon(ctx, word.ID)
	if err != nil {
		return nil, err
	}
	candidates := make([]domain.Candidate, 0, len(all))
	for _, c := range all {
		if c.Language.InClade(clade) {
			candidates = append(candidates, c)
		}
	}

	return &Assignment{Word: *word, Clade: clade, Candidates: candidates}, nil
}

// MergeCandidates returns a word and the cognate sets holding at least one
// of its entries. Those sets are the valid choices for a merge.
func (s *CognacyService) MergeCandidates(ctx context.Context, wordSlug string) (*domain.Word, []domain.CognateSet, error) {
	word, err := s.repo.GetWordBySlug(ctx, wordSlug)
	if err != nil {
		return nil, nil, err
	}
	if word == nil {
		return nil, nil, notFound("word", wordSlug)
	}
	sets, err := s.repo.CognateSetsForWord(ctx, word.ID)
	if err != nil {
		return nil, nil, err
	}
	return word, sets, nil
}

// Merge validates the merge form ("old" and "new", both drawn from
// candidates) and folds old into new
func (s *CognacyService) Merge(ctx context.Context, values form.Values, candidates []domain.CognateSet) (*domain.MergeResult, error) {
	errs := form.Errors{}
	allowed := make(map[int64]domain.CognateSet, len(candidates))
	for _, c := range candidates {
		allowed[c.ID] = c
	}

	choose := func(field string) int64 {
		id, ok := values.ID(field, errs)
		if !ok {
			return 0
		}
		if _, ok := allowed[id]; !ok {
			errs.Add(field, form.MsgInvalidChoice)
			return 0
		}
		return id
	}
	oldID := choose("old")
	newID := choose("new")
	if oldID != 0 && oldID == newID {
		errs.Add("new", "Cannot merge a cognate set into itself.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	rev := &domain.Revision{
		ID:      uuid.NewString(),
		Comment: fmt.Sprintf("Merged cognate set %s into %s", allowed[oldID], allowed[newID]),
	}
	result, err := s.repo.MergeCognateSets(ctx, oldID, newID, rev)
	if err != nil {
		return nil, fmt.Errorf("failed to merge cognate sets: %w", err)
	}
	if result == nil {
		return nil, notFound("cognate set", strconv.FormatInt(oldID, 10)+" or "+strconv.FormatInt(newID, 10))
	}

	s.logger.Info("merged cognate sets",
		zap.Int64("old", oldID),
		zap.Int64("new", newID),
		zap.Int("moved", result.Moved),
		zap.Int("duplicates", result.Duplicates),
		zap.String("revision", result.RevisionID))

	s.eventBus.Publish(Event{
		Type:    EventCognatesMerged,
		Payload: map[string]any{"old": oldID, "new": newID, "moved": result.Moved},
	})

	return result, nil
}
