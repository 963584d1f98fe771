package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens (creating if needed) the database at dbPath and migrates it.
// ":memory:" opens a private in-memory database.
func New(dbPath string) (*Repository, error) {
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if dbPath == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS languages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		language TEXT NOT NULL,
		dialect TEXT,
		isocode TEXT,
		glottocode TEXT,
		classification TEXT NOT NULL DEFAULT '',
		information TEXT,
		comment TEXT,
		bibtex TEXT,
		added DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		author TEXT NOT NULL,
		year TEXT,
		reference TEXT,
		bibtex TEXT,
		comment TEXT,
		information TEXT,
		added DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL UNIQUE,
		full TEXT,
		comment TEXT,
		quality TEXT NOT NULL DEFAULT '0',
		added DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS wordsubsets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subset TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL UNIQUE,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS wordsubset_words (
		subset_id INTEGER NOT NULL,
		word_id INTEGER NOT NULL,
		PRIMARY KEY (subset_id, word_id),
		FOREIGN KEY (subset_id) REFERENCES wordsubsets(id) ON DELETE CASCADE,
		FOREIGN KEY (word_id) REFERENCES words(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS wordlists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS wordlist_words (
		wordlist_id INTEGER NOT NULL,
		word_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (wordlist_id, word_id),
		FOREIGN KEY (wordlist_id) REFERENCES wordlists(id) ON DELETE CASCADE,
		FOREIGN KEY (word_id) REFERENCES words(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS lexicon (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		language_id INTEGER NOT NULL,
		source_id INTEGER NOT NULL,
		word_id INTEGER NOT NULL,
		entry TEXT NOT NULL,
		phon_entry TEXT,
		source_gloss TEXT,
		annotation TEXT,
		loan INTEGER NOT NULL DEFAULT 0,
		loan_source_id INTEGER,
		added DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (language_id) REFERENCES languages(id),
		FOREIGN KEY (source_id) REFERENCES sources(id),
		FOREIGN KEY (word_id) REFERENCES words(id),
		FOREIGN KEY (loan_source_id) REFERENCES languages(id)
	);

	CREATE TABLE IF NOT EXISTS cognatesets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		protoform TEXT,
		gloss TEXT,
		comment TEXT,
		source_id INTEGER,
		quality TEXT NOT NULL DEFAULT '0',
		added DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (source_id) REFERENCES sources(id)
	);

	CREATE TABLE IF NOT EXISTS cognates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lexicon_id INTEGER NOT NULL,
		cognateset_id INTEGER NOT NULL,
		source_id INTEGER,
		comment TEXT,
		flag TEXT NOT NULL DEFAULT '0',
		added DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (lexicon_id) REFERENCES lexicon(id) ON DELETE CASCADE,
		FOREIGN KEY (cognateset_id) REFERENCES cognatesets(id) ON DELETE CASCADE,
		FOREIGN KEY (source_id) REFERENCES sources(id)
	);

	CREATE TABLE IF NOT EXISTS cognacy_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word_id INTEGER,
		cognateset_id INTEGER,
		note TEXT NOT NULL,
		FOREIGN KEY (word_id) REFERENCES words(id) ON DELETE CASCADE,
		FOREIGN KEY (cognateset_id) REFERENCES cognatesets(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS corrsets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id INTEGER,
		comment TEXT,
		FOREIGN KEY (source_id) REFERENCES sources(id)
	);

	CREATE TABLE IF NOT EXISTS correspondences (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		language_id INTEGER NOT NULL,
		corrset_id INTEGER NOT NULL,
		rule TEXT NOT NULL,
		FOREIGN KEY (language_id) REFERENCES languages(id),
		FOREIGN KEY (corrset_id) REFERENCES corrsets(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		language_id INTEGER,
		source_id INTEGER,
		form TEXT NOT NULL,
		wordlist_id INTEGER,
		done INTEGER NOT NULL DEFAULT 0,
		completable INTEGER NOT NULL DEFAULT 0,
		added DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (language_id) REFERENCES languages(id),
		FOREIGN KEY (source_id) REFERENCES sources(id),
		FOREIGN KEY (wordlist_id) REFERENCES wordlists(id)
	);

	CREATE TABLE IF NOT EXISTS task_lexicon (
		task_id INTEGER NOT NULL,
		lexicon_id INTEGER NOT NULL,
		PRIMARY KEY (task_id, lexicon_id),
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		FOREIGN KEY (lexicon_id) REFERENCES lexicon(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS revisions (
		id TEXT PRIMARY KEY,
		comment TEXT NOT NULL DEFAULT '',
		digest TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS versions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		revision_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		object_id INTEGER NOT NULL,
		snapshot JSON NOT NULL,
		FOREIGN KEY (revision_id) REFERENCES revisions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_lexicon_word ON lexicon(word_id);
	CREATE INDEX IF NOT EXISTS idx_lexicon_language ON lexicon(language_id);
	CREATE INDEX IF NOT EXISTS idx_lexicon_entry ON lexicon(entry);
	CREATE INDEX IF NOT EXISTS idx_lexicon_loan ON lexicon(loan);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_cognates_pair ON cognates(lexicon_id, cognateset_id);
	CREATE INDEX IF NOT EXISTS idx_cognates_set ON cognates(cognateset_id);
	CREATE INDEX IF NOT EXISTS idx_cognatesets_protoform ON cognatesets(protoform);
	CREATE INDEX IF NOT EXISTS idx_languages_glottocode ON languages(glottocode);
	CREATE INDEX IF NOT EXISTS idx_versions_revision ON versions(revision_id);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return err
	}
	// the in-memory DSN can drop pragmas on some driver versions
	_, err := r.db.Exec(`PRAGMA foreign_keys = ON`)
	return err
}

// withTx runs fn inside a transaction. The transaction is committed only
// when fn succeeds and commit is true; otherwise it is rolled back.
func (r *Repository) withTx(ctx context.Context, commit bool, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if !commit {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
