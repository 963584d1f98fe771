package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"lexibase/internal/domain"
)

// ListLanguages returns one page of languages ordered by slug, plus the total
func (r *Repository) ListLanguages(ctx context.Context, limit, offset int) ([]domain.Language, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM languages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count languages: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+languageColumns+` FROM languages ORDER BY slug LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query languages: %w", err)
	}
	defer rows.Close()

	languages := []domain.Language{}
	for rows.Next() {
		var row languageRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, row.toDomain())
	}
	return languages, total, rows.Err()
}

// GetLanguage retrieves a language by slug
func (r *Repository) GetLanguage(ctx context.Context, slug string) (*domain.Language, error) {
	var row languageRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE slug = ?`, slug).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get language: %w", err)
	}
	lang := row.toDomain()
	return &lang, nil
}

// ListClassifications returns every language's classification string
func (r *Repository) ListClassifications(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT classification FROM languages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListSources returns one page of sources ordered by slug, plus the total
func (r *Repository) ListSources(ctx context.Context, limit, offset int) ([]domain.Source, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sources: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM sources ORDER BY slug LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	sources := []domain.Source{}
	for rows.Next() {
		var row sourceRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, row.toDomain())
	}
	return sources, total, rows.Err()
}

// GetSource retrieves a source by slug
func (r *Repository) GetSource(ctx context.Context, slug string) (*domain.Source, error) {
	var row sourceRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE slug = ?`, slug).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	src := row.toDomain()
	return &src, nil
}

// ListWords returns every word ordered by word
func (r *Repository) ListWords(ctx context.Context) ([]domain.Word, error) {
	return queryWords(ctx, r.db, `SELECT `+wordColumns+` FROM words ORDER BY word`)
}

// GetWord retrieves a word by id
func (r *Repository) GetWord(ctx context.Context, id int64) (*domain.Word, error) {
	return getWord(ctx, r.db, `SELECT `+wordColumns+` FROM words WHERE id = ?`, id)
}

// GetWordBySlug retrieves a word by slug
func (r *Repository) GetWordBySlug(ctx context.Context, slug string) (*domain.Word, error) {
	return getWord(ctx, r.db, `SELECT `+wordColumns+` FROM words WHERE slug = ?`, slug)
}

// GetWordSubset retrieves a subset and its words
func (r *Repository) GetWordSubset(ctx context.Context, slug string) (*domain.WordSubset, error) {
	var (
		subset domain.WordSubset
		desc   sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subset, slug, description FROM wordsubsets WHERE slug = ?`, slug).
		Scan(&subset.ID, &subset.Subset, &subset.Slug, &desc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word subset: %w", err)
	}
	subset.Description = nullToString(desc)

	subset.Words, err = queryWords(ctx, r.db, `
		SELECT `+qualify("w", wordColumns)+`
		FROM words w JOIN wordsubset_words sw ON sw.word_id = w.id
		WHERE sw.subset_id = ? ORDER BY w.slug`, subset.ID)
	if err != nil {
		return nil, err
	}
	return &subset, nil
}

// GetWordlist retrieves a wordlist with its words in list order
func (r *Repository) GetWordlist(ctx context.Context, id int64) (*domain.Wordlist, error) {
	var list domain.Wordlist
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM wordlists WHERE id = ?`, id).
		Scan(&list.ID, &list.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wordlist: %w", err)
	}

	list.Words, err = queryWords(ctx, r.db, `
		SELECT `+qualify("w", wordColumns)+`
		FROM words w JOIN wordlist_words lw ON lw.word_id = w.id
		WHERE lw.wordlist_id = ? ORDER BY lw.position`, id)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Statistics returns row counts for the main tables
func (r *Repository) Statistics(ctx context.Context) ([]domain.Statistic, error) {
	counts := []struct {
		label string
		query string
	}{
		{"Number of Languages", `SELECT COUNT(*) FROM languages`},
		{"Number of Sources", `SELECT COUNT(*) FROM sources`},
		{"Number of Words", `SELECT COUNT(*) FROM words`},
		{"Number of Lexical Items", `SELECT COUNT(*) FROM lexicon`},
		{"Number of Loan Words", `SELECT COUNT(*) FROM lexicon WHERE loan = 1`},
		{"Number of Cognate Sets", `SELECT COUNT(*) FROM cognatesets`},
		{"Number of Cognates", `SELECT COUNT(*) FROM cognates`},
		{"Number of Correspondence Sets", `SELECT COUNT(*) FROM corrsets`},
		{"Number of Tasks", `SELECT COUNT(*) FROM tasks`},
		{"Number of Completed Tasks", `SELECT COUNT(*) FROM tasks WHERE done = 1`},
	}

	stats := make([]domain.Statistic, 0, len(counts))
	for _, c := range counts {
		var n int
		if err := r.db.QueryRowContext(ctx, c.query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %q: %w", c.label, err)
		}
		stats = append(stats, domain.Statistic{Label: c.label, Value: n})
	}
	return stats, nil
}

func queryWords(ctx context.Context, q querier, query string, args ...any) ([]domain.Word, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		var row wordRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, row.toDomain())
	}
	return words, rows.Err()
}

func getWord(ctx context.Context, q querier, query string, args ...any) (*domain.Word, error) {
	var row wordRow
	err := q.QueryRowContext(ctx, query, args...).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	w := row.toDomain()
	return &w, nil
}
