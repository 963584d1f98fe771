package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"lexibase/internal/domain"
)

// ImportDataset applies a dataset in one transaction and records rev with a
// version per top-level record. The transaction is committed only when
// commit is true; a dry run still executes every statement.
func (r *Repository) ImportDataset(ctx context.Context, ds *domain.Dataset, rev *domain.Revision, commit bool) (*domain.ImportResult, error) {
	result := &domain.ImportResult{
		Digest:    rev.Digest,
		Created:   make(map[string]int),
		Committed: commit,
	}

	err := r.withTx(ctx, commit, func(tx *sql.Tx) error {
		imp := &importer{ctx: ctx, tx: tx, rev: rev, lexicon: make(map[string]int64), created: result.Created}
		steps := []func(*domain.Dataset) error{
			imp.languages,
			imp.sources,
			imp.words,
			imp.subsets,
			imp.wordlists,
			imp.lexiconEntries,
			imp.cognateSets,
			imp.correspondenceSets,
			imp.tasks,
		}
		for _, step := range steps {
			if err := step(ds); err != nil {
				return err
			}
		}
		return insertRevision(ctx, tx, rev)
	})
	if err != nil {
		return nil, err
	}

	result.RevisionID = rev.ID
	return result, nil
}

// importer carries the state of one dataset import
type importer struct {
	ctx     context.Context
	tx      *sql.Tx
	rev     *domain.Revision
	lexicon map[string]int64
	created map[string]int
}

func (i *importer) version(kind string, id int64, v any) error {
	ver, err := domain.NewVersion(kind, id, v)
	if err != nil {
		return fmt.Errorf("failed to snapshot %s %d: %w", kind, id, err)
	}
	i.rev.Versions = append(i.rev.Versions, ver)
	i.created[kind]++
	return nil
}

// lookup resolves a slug (or name) to an id in table
func (i *importer) lookup(table, column, value string) (int64, error) {
	var id int64
	err := i.tx.QueryRowContext(i.ctx,
		`SELECT id FROM `+table+` WHERE `+column+` = ?`, value).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("unknown %s %q", table, value)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s %q: %w", table, value, err)
	}
	return id, nil
}

// optional resolves value when it is set
func (i *importer) optional(table, column, value string) (sql.NullInt64, error) {
	if value == "" {
		return sql.NullInt64{}, nil
	}
	id, err := i.lookup(table, column, value)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

func (i *importer) upsert(kind, query string, args ...any) (int64, error) {
	var id int64
	if err := i.tx.QueryRowContext(i.ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", kind, err)
	}
	return id, nil
}

func (i *importer) languages(ds *domain.Dataset) error {
	for _, l := range ds.Languages {
		id, err := i.upsert("language", `
			INSERT INTO languages (slug, language, dialect, isocode, glottocode,
				classification, information, comment, bibtex)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(slug) DO UPDATE SET
				language = excluded.language,
				dialect = excluded.dialect,
				isocode = excluded.isocode,
				glottocode = excluded.glottocode,
				classification = excluded.classification,
				information = excluded.information,
				comment = excluded.comment,
				bibtex = excluded.bibtex
			RETURNING id`,
			l.Slug, l.Language, stringToNull(l.Dialect), stringToNull(l.ISOCode),
			stringToNull(l.Glottocode), l.Classification, stringToNull(l.Information),
			stringToNull(l.Comment), stringToNull(l.Bibtex))
		if err != nil {
			return err
		}
		if err := i.version("language", id, l); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) sources(ds *domain.Dataset) error {
	for _, s := range ds.Sources {
		id, err := i.upsert("source", `
			INSERT INTO sources (slug, author, year, reference, bibtex, comment, information)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(slug) DO UPDATE SET
				author = excluded.author,
				year = excluded.year,
				reference = excluded.reference,
				bibtex = excluded.bibtex,
				comment = excluded.comment,
				information = excluded.information
			RETURNING id`,
			s.Slug, s.Author, stringToNull(s.Year), stringToNull(s.Reference),
			stringToNull(s.Bibtex), stringToNull(s.Comment), stringToNull(s.Information))
		if err != nil {
			return err
		}
		if err := i.version("source", id, s); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) words(ds *domain.Dataset) error {
	for _, w := range ds.Words {
		quality := w.Quality
		if quality == "" {
			quality = domain.WordQualityUnassessed
		}
		id, err := i.upsert("word", `
			INSERT INTO words (word, slug, full, comment, quality)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(slug) DO UPDATE SET
				word = excluded.word,
				full = excluded.full,
				comment = excluded.comment,
				quality = excluded.quality
			RETURNING id`,
			w.Word, w.Slug, stringToNull(w.Full), stringToNull(w.Comment), string(quality))
		if err != nil {
			return err
		}
		if err := i.version("word", id, w); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) subsets(ds *domain.Dataset) error {
	for _, s := range ds.WordSubsets {
		id, err := i.upsert("wordsubset", `
			INSERT INTO wordsubsets (subset, slug, description) VALUES (?, ?, ?)
			ON CONFLICT(slug) DO UPDATE SET
				subset = excluded.subset,
				description = excluded.description
			RETURNING id`,
			s.Subset, s.Slug, stringToNull(s.Description))
		if err != nil {
			return err
		}
		for _, slug := range s.Words {
			wordID, err := i.lookup("words", "slug", slug)
			if err != nil {
				return fmt.Errorf("wordsubset %q: %w", s.Slug, err)
			}
			if _, err := i.tx.ExecContext(i.ctx,
				`INSERT OR IGNORE INTO wordsubset_words (subset_id, word_id) VALUES (?, ?)`, id, wordID); err != nil {
				return fmt.Errorf("failed to add word to subset: %w", err)
			}
		}
		if err := i.version("wordsubset", id, s); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) wordlists(ds *domain.Dataset) error {
	for _, w := range ds.Wordlists {
		id, err := i.upsert("wordlist", `
			INSERT INTO wordlists (name) VALUES (?)
			ON CONFLICT(name) DO UPDATE SET name = excluded.name
			RETURNING id`, w.Name)
		if err != nil {
			return err
		}
		if _, err := i.tx.ExecContext(i.ctx, `DELETE FROM wordlist_words WHERE wordlist_id = ?`, id); err != nil {
			return fmt.Errorf("failed to reset wordlist: %w", err)
		}
		for pos, slug := range w.Words {
			wordID, err := i.lookup("words", "slug", slug)
			if err != nil {
				return fmt.Errorf("wordlist %q: %w", w.Name, err)
			}
			if _, err := i.tx.ExecContext(i.ctx,
				`INSERT INTO wordlist_words (wordlist_id, word_id, position) VALUES (?, ?, ?)`,
				id, wordID, pos); err != nil {
				return fmt.Errorf("failed to add word to wordlist: %w", err)
			}
		}
		if err := i.version("wordlist", id, w); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) lexiconEntries(ds *domain.Dataset) error {
	for _, rec := range ds.Lexicon {
		lex := domain.Lexicon{
			Entry:       rec.Entry,
			PhonEntry:   rec.PhonEntry,
			SourceGloss: rec.SourceGloss,
			Annotation:  rec.Annotation,
			Loan:        rec.Loan,
		}
		var err error
		if lex.LanguageID, err = i.lookup("languages", "slug", rec.Language); err != nil {
			return fmt.Errorf("lexicon %q: %w", rec.Entry, err)
		}
		if lex.SourceID, err = i.lookup("sources", "slug", rec.Source); err != nil {
			return fmt.Errorf("lexicon %q: %w", rec.Entry, err)
		}
		if lex.WordID, err = i.lookup("words", "slug", rec.Word); err != nil {
			return fmt.Errorf("lexicon %q: %w", rec.Entry, err)
		}
		loanSource, err := i.optional("languages", "slug", rec.LoanSource)
		if err != nil {
			return fmt.Errorf("lexicon %q: %w", rec.Entry, err)
		}
		lex.LoanSourceID = nullToInt64Ptr(loanSource)

		saved, err := insertLexicon(i.ctx, i.tx, &lex)
		if err != nil {
			return err
		}
		if rec.Key != "" {
			i.lexicon[rec.Key] = saved.ID
		}
		if err := i.version("lexicon", saved.ID, saved); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) cognateSets(ds *domain.Dataset) error {
	for _, rec := range ds.CognateSets {
		source, err := i.optional("sources", "slug", rec.Source)
		if err != nil {
			return fmt.Errorf("cognateset %q: %w", rec.Protoform, err)
		}
		quality := rec.Quality
		if quality == "" {
			quality = domain.QualityUnassessed
		}
		id, err := i.upsert("cognateset", `
			INSERT INTO cognatesets (protoform, gloss, comment, source_id, quality)
			VALUES (?, ?, ?, ?, ?) RETURNING id`,
			stringToNull(rec.Protoform), stringToNull(rec.Gloss), stringToNull(rec.Comment),
			source, string(quality))
		if err != nil {
			return err
		}

		for _, m := range rec.Members {
			lexID, ok := i.lexicon[m.Lexicon]
			if !ok {
				return fmt.Errorf("cognateset %q: unknown lexicon key %q", rec.Protoform, m.Lexicon)
			}
			memberSource, err := i.optional("sources", "slug", m.Source)
			if err != nil {
				return fmt.Errorf("cognateset %q: %w", rec.Protoform, err)
			}
			flag := m.Flag
			if flag == "" {
				flag = domain.QualityUnassessed
			}
			if _, err := i.tx.ExecContext(i.ctx, `
				INSERT INTO cognates (lexicon_id, cognateset_id, source_id, comment, flag)
				VALUES (?, ?, ?, ?, ?)`,
				lexID, id, memberSource, stringToNull(m.Comment), string(flag)); err != nil {
				return fmt.Errorf("failed to insert cognate: %w", err)
			}
			i.created["cognate"]++
		}

		for _, note := range rec.Notes {
			if _, err := i.tx.ExecContext(i.ctx,
				`INSERT INTO cognacy_notes (cognateset_id, note) VALUES (?, ?)`, id, note); err != nil {
				return fmt.Errorf("failed to insert cognacy note: %w", err)
			}
		}

		if err := i.version("cognateset", id, rec); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) correspondenceSets(ds *domain.Dataset) error {
	for _, rec := range ds.CorrespondenceSets {
		source, err := i.optional("sources", "slug", rec.Source)
		if err != nil {
			return fmt.Errorf("correspondenceset %q: %w", rec.Comment, err)
		}
		id, err := i.upsert("correspondenceset",
			`INSERT INTO corrsets (source_id, comment) VALUES (?, ?) RETURNING id`,
			source, stringToNull(rec.Comment))
		if err != nil {
			return err
		}
		for _, rule := range rec.Rules {
			langID, err := i.lookup("languages", "slug", rule.Language)
			if err != nil {
				return fmt.Errorf("correspondenceset %q: %w", rec.Comment, err)
			}
			if _, err := i.tx.ExecContext(i.ctx,
				`INSERT INTO correspondences (language_id, corrset_id, rule) VALUES (?, ?, ?)`,
				langID, id, rule.Rule); err != nil {
				return fmt.Errorf("failed to insert correspondence: %w", err)
			}
		}
		if err := i.version("correspondenceset", id, rec); err != nil {
			return err
		}
	}
	return nil
}

func (i *importer) tasks(ds *domain.Dataset) error {
	for _, rec := range ds.Tasks {
		language, err := i.optional("languages", "slug", rec.Language)
		if err != nil {
			return fmt.Errorf("task %q: %w", rec.Name, err)
		}
		source, err := i.optional("sources", "slug", rec.Source)
		if err != nil {
			return fmt.Errorf("task %q: %w", rec.Name, err)
		}
		wordlist, err := i.optional("wordlists", "name", rec.Wordlist)
		if err != nil {
			return fmt.Errorf("task %q: %w", rec.Name, err)
		}
		id, err := i.upsert("task", `
			INSERT INTO tasks (name, description, language_id, source_id, form, wordlist_id, completable)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			rec.Name, stringToNull(rec.Description), language, source, rec.Form,
			wordlist, boolToInt(rec.Completable))
		if err != nil {
			return err
		}
		if err := i.version("task", id, rec); err != nil {
			return err
		}
	}
	return nil
}
