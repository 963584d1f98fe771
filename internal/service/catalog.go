package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"lexibase/internal/domain"
	"lexibase/internal/repository"
)

// CatalogService serves read-only lookups over languages, sources, words,
// cognate sets and tasks
type CatalogService struct {
	repo       repository.Repository
	logger     *zap.Logger
	cladeDepth int
	sources    *ttlCache
}

// NewCatalogService creates a catalog service. Source lookups are cached for
// sourceTTL; zero disables the cache.
func NewCatalogService(repo repository.Repository, logger *zap.Logger, cladeDepth int, sourceTTL time.Duration) *CatalogService {
	if cladeDepth < 1 {
		cladeDepth = domain.DefaultCladeDepth
	}
	return &CatalogService{
		repo:       repo,
		logger:     named(logger, "catalog"),
		cladeDepth: cladeDepth,
		sources:    newTTLCache(sourceTTL),
	}
}

// Page is one slice of a listing plus the total number of objects
type Page[T any] struct {
	Objects []T
	Total   int
	Limit   int
	Offset  int
}

// Languages returns one page of languages
func (s *CatalogService) Languages(ctx context.Context, limit, offset int) (*Page[domain.Language], error) {
	langs, total, err := s.repo.ListLanguages(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &Page[domain.Language]{Objects: langs, Total: total, Limit: limit, Offset: offset}, nil
}

// Language looks up a language by slug
func (s *CatalogService) Language(ctx context.Context, slug string) (*domain.Language, error) {
	lang, err := s.repo.GetLanguage(ctx, slug)
	if err != nil {
		return nil, err
	}
	if lang == nil {
		return nil, notFound("language", slug)
	}
	return lang, nil
}

// Sources returns one page of sources, cached
func (s *CatalogService) Sources(ctx context.Context, limit, offset int) (*Page[domain.Source], error) {
	key := fmt.Sprintf("list:%d:%d", limit, offset)
	if v, ok := s.sources.get(key); ok {
		return v.(*Page[domain.Source]), nil
	}

	srcs, total, err := s.repo.ListSources(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	page := &Page[domain.Source]{Objects: srcs, Total: total, Limit: limit, Offset: offset}
	s.sources.set(key, page)
	return page, nil
}

// Source looks up a source by slug, cached
func (s *CatalogService) Source(ctx context.Context, slug string) (*domain.Source, error) {
	key := "slug:" + slug
	if v, ok := s.sources.get(key); ok {
		return v.(*domain.Source), nil
	}

	src, err := s.repo.GetSource(ctx, slug)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, notFound("source", slug)
	}
	s.sources.set(key, src)
	return src, nil
}

// Words returns every word
func (s *CatalogService) Words(ctx context.Context) ([]domain.Word, error) {
	return s.repo.ListWords(ctx)
}

// Word looks up a word by slug
func (s *CatalogService) Word(ctx context.Context, slug string) (*domain.Word, error) {
	w, err := s.repo.GetWordBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, notFound("word", slug)
	}
	return w, nil
}

// Subset looks up a word subset by slug
func (s *CatalogService) Subset(ctx context.Context, slug string) (*domain.WordSubset, error) {
	sub, err := s.repo.GetWordSubset(ctx, slug)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, notFound("word subset", slug)
	}
	return sub, nil
}

// CognateSet looks up a cognate set with its members
func (s *CatalogService) CognateSet(ctx context.Context, id int64) (*domain.CognateSetDetail, error) {
	set, err := s.repo.GetCognateSet(ctx, id)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, notFound("cognate set", id)
	}
	return set, nil
}

// Tasks returns every task
func (s *CatalogService) Tasks(ctx context.Context) ([]domain.Task, error) {
	return s.repo.ListTasks(ctx)
}

// Task looks up a task and the lexicon saved against it
func (s *CatalogService) Task(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, notFound("task", id)
	}
	return task, nil
}

// Clades aggregates the language classifications. depth below 1 uses the
// configured depth.
func (s *CatalogService) Clades(ctx context.Context, depth int) (domain.CladeChoices, error) {
	if depth < 1 {
		depth = s.cladeDepth
	}
	classifications, err := s.repo.ListClassifications(ctx)
	if err != nil {
		return domain.CladeChoices{}, err
	}
	return domain.Clades(classifications, depth), nil
}

// Statistics returns row counts for the main tables
func (s *CatalogService) Statistics(ctx context.Context) ([]domain.Statistic, error) {
	return s.repo.Statistics(ctx)
}

// ttlCache is a small expiring map. A zero ttl stores nothing. Expired
// entries are swept on every set, so varying keys cannot grow it past one
// ttl's worth of writes.
type ttlCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{ttl: ttl, now: time.Now, entries: make(map[string]cacheEntry)}
}

func (c *ttlCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) set(key string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{value: value, expires: now.Add(c.ttl)}
}
