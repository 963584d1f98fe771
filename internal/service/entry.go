package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"lexibase/internal/domain"
	"lexibase/internal/form"
	"lexibase/internal/repository"
)

// EntryService builds and saves the per-task data-entry forms
type EntryService struct {
	repo      repository.Repository
	eventBus  *EventBus
	logger    *zap.Logger
	batteries map[string]domain.Battery
}

// NewEntryService creates an entry service over the given word batteries,
// keyed by task form name
func NewEntryService(repo repository.Repository, eventBus *EventBus, logger *zap.Logger, batteries map[string]domain.Battery) *EntryService {
	if batteries == nil {
		batteries = domain.Batteries()
	}
	return &EntryService{
		repo:      repo,
		eventBus:  eventBus,
		logger:    named(logger, "entry"),
		batteries: batteries,
	}
}

// Task loads a task by id
func (s *EntryService) Task(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, notFound("task", id)
	}
	return task, nil
}

// Form loads a task and builds its rows
func (s *EntryService) Form(ctx context.Context, taskID int64) (*domain.EntryForm, error) {
	task, err := s.Task(ctx, taskID)
	if err != nil {
		return nil, err
	}
	rows, err := s.Rows(ctx, task)
	if err != nil {
		return nil, err
	}
	return &domain.EntryForm{Task: *task, Rows: rows}, nil
}

// Rows builds one row per target word of the task, in order. A battery
// naming a word that does not exist fails with ErrWordNotFound; no partial
// set of rows is returned.
func (s *EntryService) Rows(ctx context.Context, task *domain.Task) ([]domain.EntryRow, error) {
	words, err := s.words(ctx, task)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.EntryRow, len(words))
	for i, w := range words {
		rows[i] = domain.EntryRow{
			Language:  task.LanguageID,
			Source:    task.SourceID,
			Word:      w.ID,
			WordLabel: w.String(),
			Hidden:    []string{"language", "source"},
		}
	}
	return rows, nil
}

func (s *EntryService) words(ctx context.Context, task *domain.Task) ([]domain.Word, error) {
	if task.Form == domain.FormWordlist {
		if task.WordlistID == nil {
			return nil, fmt.Errorf("task %d has form %q but no wordlist", task.ID, task.Form)
		}
		list, err := s.repo.GetWordlist(ctx, *task.WordlistID)
		if err != nil {
			return nil, err
		}
		if list == nil {
			return nil, notFound("wordlist", *task.WordlistID)
		}
		return list.Words, nil
	}

	battery, ok := s.batteries[task.Form]
	if !ok {
		return nil, fmt.Errorf("task %d: unknown form %q", task.ID, task.Form)
	}
	words := make([]domain.Word, 0, len(battery.Slugs))
	for _, slug := range battery.Slugs {
		w, err := s.repo.GetWordBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("battery %s: %q: %w", battery.Name, slug, ErrWordNotFound)
		}
		words = append(words, *w)
	}
	return words, nil
}

// Submit validates every row and, when all are valid, saves the non-blank
// ones against the task in one transaction. A completable task is marked
// done. The task's target words are rebuilt first, so a battery naming a
// missing word fails with ErrWordNotFound before anything is checked.
// Invalid input returns a *form.ValidationError keyed by row index.
func (s *EntryService) Submit(ctx context.Context, taskID int64, rows []domain.EntryRow) (*domain.EntryResult, error) {
	task, err := s.Task(ctx, taskID)
	if err != nil {
		return nil, err
	}
	words, err := s.words(ctx, task)
	if err != nil {
		return nil, err
	}
	targets := make(map[int64]bool, len(words))
	for _, w := range words {
		targets[w.ID] = true
	}

	rowErrs := make(map[int]form.Errors)
	var entries []domain.Lexicon
	for i, row := range rows {
		row = trimRow(row)
		if row.Entry == "" {
			continue
		}
		errs := form.Errors{}
		validateRow(task, targets, row, errs)
		if !errs.Empty() {
			rowErrs[i] = errs
			continue
		}
		entries = append(entries, domain.Lexicon{
			LanguageID:  *task.LanguageID,
			SourceID:    *task.SourceID,
			WordID:      row.Word,
			Entry:       row.Entry,
			PhonEntry:   row.PhonEntry,
			SourceGloss: row.SourceGloss,
			Annotation:  row.Annotation,
		})
	}
	if len(rowErrs) > 0 {
		return nil, &form.ValidationError{Rows: rowErrs}
	}

	saved, err := s.repo.SaveEntries(ctx, task.ID, entries, task.Completable)
	if err != nil {
		return nil, fmt.Errorf("failed to save entries: %w", err)
	}

	s.logger.Info("saved task entries",
		zap.Int64("task", task.ID),
		zap.Int("saved", len(saved)),
		zap.Bool("done", task.Completable))

	s.eventBus.Publish(Event{
		Type:    EventLexiconSaved,
		Payload: map[string]any{"task": task.ID, "saved": len(saved)},
	})

	return &domain.EntryResult{Saved: saved, Done: task.Completable}, nil
}

// trimRow strips surrounding whitespace from the free-text fields, so a
// whitespace-only entry counts as blank
func trimRow(row domain.EntryRow) domain.EntryRow {
	row.Entry = strings.TrimSpace(row.Entry)
	row.PhonEntry = strings.TrimSpace(row.PhonEntry)
	row.SourceGloss = strings.TrimSpace(row.SourceGloss)
	row.Annotation = strings.TrimSpace(row.Annotation)
	return row
}

// validateRow checks one non-blank row. The word must be one of the task's
// target words.
func validateRow(task *domain.Task, targets map[int64]bool, row domain.EntryRow, errs form.Errors) {
	checkLength := func(field, value string) {
		if utf8.RuneCountInString(value) > domain.MaxEntryLength {
			errs.Add(field, form.MsgMaxLength(domain.MaxEntryLength))
		}
	}
	checkLength("entry", row.Entry)
	checkLength("phon_entry", row.PhonEntry)
	checkLength("source_gloss", row.SourceGloss)

	switch {
	case row.Word <= 0:
		errs.Add("word", form.MsgRequired)
	case !targets[row.Word]:
		errs.Add("word", form.MsgInvalidChoice)
	}

	checkFixed := func(field string, got, want *int64) {
		switch {
		case want == nil:
			errs.Add(field, "This task has no "+field+" to enter data for.")
		case got == nil:
			errs.Add(field, form.MsgRequired)
		case *got != *want:
			errs.Add(field, form.MsgInvalidChoice)
		}
	}
	checkFixed("language", row.Language, task.LanguageID)
	checkFixed("source", row.Source, task.SourceID)
}
