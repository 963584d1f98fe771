package repository

import (
	"context"

	"lexibase/internal/domain"
)

// Repository defines data access for the lexical database
type Repository interface {
	// Catalog reads
	ListLanguages(ctx context.Context, limit, offset int) ([]domain.Language, int, error)
	GetLanguage(ctx context.Context, slug string) (*domain.Language, error)
	ListClassifications(ctx context.Context) ([]string, error)
	ListSources(ctx context.Context, limit, offset int) ([]domain.Source, int, error)
	GetSource(ctx context.Context, slug string) (*domain.Source, error)
	ListWords(ctx context.Context) ([]domain.Word, error)
	GetWord(ctx context.Context, id int64) (*domain.Word, error)
	GetWordBySlug(ctx context.Context, slug string) (*domain.Word, error)
	GetWordSubset(ctx context.Context, slug string) (*domain.WordSubset, error)
	GetWordlist(ctx context.Context, id int64) (*domain.Wordlist, error)
	Statistics(ctx context.Context) ([]domain.Statistic, error)

	// Cognacy
	CandidateLexicon(ctx context.Context, wordID int64) ([]domain.Candidate, error)
	GetCognateSet(ctx context.Context, id int64) (*domain.CognateSetDetail, error)
	CognateSetsForWord(ctx context.Context, wordID int64) ([]domain.CognateSet, error)
	MergeCognateSets(ctx context.Context, oldID, newID int64, rev *domain.Revision) (*domain.MergeResult, error)

	// Data entry
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	SaveEntries(ctx context.Context, taskID int64, entries []domain.Lexicon, markDone bool) ([]domain.Lexicon, error)

	// Bulk operations
	ImportDataset(ctx context.Context, ds *domain.Dataset, rev *domain.Revision, commit bool) (*domain.ImportResult, error)
	GetRevision(ctx context.Context, id string) (*domain.Revision, error)

	// Close releases resources
	Close() error
}
