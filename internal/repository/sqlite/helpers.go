package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"lexibase/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToInt64Ptr converts sql.NullInt64 to *int64
func nullToInt64Ptr(ni sql.NullInt64) *int64 {
	if ni.Valid {
		v := ni.Int64
		return &v
	}
	return nil
}

// nullToBool converts sql.NullInt64 to bool (0 = false, non-zero = true)
func nullToBool(ni sql.NullInt64) bool {
	return ni.Valid && ni.Int64 != 0
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// int64PtrToNull converts *int64 to sql.NullInt64
func int64PtrToNull(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

// boolToInt stores booleans the way the schema declares them
func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a column to one of the scanned tables:
// 1. Add the field to the matching xxxRow struct
// 2. APPEND it to scanArgs() and to the xxxColumns constant
// 3. Map it in toDomain()
// 4. Add it to the CREATE TABLE in migrate()
//
// Column order must match between the xxxColumns constant, scanArgs() and
// every SELECT that uses the constant (including prefixed variants).

// ============================================================================
// Language Row Scanner
// ============================================================================

type languageRow struct {
	ID             int64
	Slug           string
	Language       string
	Dialect        sql.NullString
	ISOCode        sql.NullString
	Glottocode     sql.NullString
	Classification string
	Information    sql.NullString
	Comment        sql.NullString
	Bibtex         sql.NullString
	Added          sql.NullTime
}

// scanArgs MUST match languageColumns order
func (r *languageRow) scanArgs() []any {
	return []any{
		&r.ID,             // 1
		&r.Slug,           // 2
		&r.Language,       // 3
		&r.Dialect,        // 4
		&r.ISOCode,        // 5
		&r.Glottocode,     // 6
		&r.Classification, // 7
		&r.Information,    // 8
		&r.Comment,        // 9
		&r.Bibtex,         // 10
		&r.Added,          // 11
	}
}

func (r *languageRow) toDomain() domain.Language {
	return domain.Language{
		ID:             r.ID,
		Slug:           r.Slug,
		Language:       r.Language,
		Dialect:        nullToString(r.Dialect),
		ISOCode:        nullToString(r.ISOCode),
		Glottocode:     nullToString(r.Glottocode),
		Classification: r.Classification,
		Information:    nullToString(r.Information),
		Comment:        nullToString(r.Comment),
		Bibtex:         nullToString(r.Bibtex),
		Added:          nullToTime(r.Added),
	}
}

const languageColumns = `id, slug, language, dialect, isocode, glottocode,
	classification, information, comment, bibtex, added`

// ============================================================================
// Source Row Scanner
// ============================================================================

type sourceRow struct {
	ID          int64
	Slug        string
	Author      string
	Year        sql.NullString
	Reference   sql.NullString
	Bibtex      sql.NullString
	Comment     sql.NullString
	Information sql.NullString
	Added       sql.NullTime
}

// scanArgs MUST match sourceColumns order
func (r *sourceRow) scanArgs() []any {
	return []any{
		&r.ID,          // 1
		&r.Slug,        // 2
		&r.Author,      // 3
		&r.Year,        // 4
		&r.Reference,   // 5
		&r.Bibtex,      // 6
		&r.Comment,     // 7
		&r.Information, // 8
		&r.Added,       // 9
	}
}

func (r *sourceRow) toDomain() domain.Source {
	return domain.Source{
		ID:          r.ID,
		Slug:        r.Slug,
		Author:      r.Author,
		Year:        nullToString(r.Year),
		Reference:   nullToString(r.Reference),
		Bibtex:      nullToString(r.Bibtex),
		Comment:     nullToString(r.Comment),
		Information: nullToString(r.Information),
		Added:       nullToTime(r.Added),
	}
}

const sourceColumns = `id, slug, author, year, reference, bibtex, comment, information, added`

// ============================================================================
// Word Row Scanner
// ============================================================================

type wordRow struct {
	ID      int64
	Word    string
	Slug    string
	Full    sql.NullString
	Comment sql.NullString
	Quality string
	Added   sql.NullTime
}

// scanArgs MUST match wordColumns order
func (r *wordRow) scanArgs() []any {
	return []any{&r.ID, &r.Word, &r.Slug, &r.Full, &r.Comment, &r.Quality, &r.Added}
}

func (r *wordRow) toDomain() domain.Word {
	return domain.Word{
		ID:      r.ID,
		Word:    r.Word,
		Slug:    r.Slug,
		Full:    nullToString(r.Full),
		Comment: nullToString(r.Comment),
		Quality: domain.WordQuality(r.Quality),
		Added:   nullToTime(r.Added),
	}
}

const wordColumns = `id, word, slug, full, comment, quality, added`

// ============================================================================
// Lexicon Row Scanner
// ============================================================================

type lexiconRow struct {
	ID           int64
	LanguageID   int64
	SourceID     int64
	WordID       int64
	Entry        string
	PhonEntry    sql.NullString
	SourceGloss  sql.NullString
	Annotation   sql.NullString
	Loan         sql.NullInt64
	LoanSourceID sql.NullInt64
	Added        sql.NullTime
}

// scanArgs MUST match lexiconColumns order
func (r *lexiconRow) scanArgs() []any {
	return []any{
		&r.ID,           // 1
		&r.LanguageID,   // 2
		&r.SourceID,     // 3
		&r.WordID,       // 4
		&r.Entry,        // 5
		&r.PhonEntry,    // 6
		&r.SourceGloss,  // 7
		&r.Annotation,   // 8
		&r.Loan,         // 9
		&r.LoanSourceID, // 10
		&r.Added,        // 11
	}
}

func (r *lexiconRow) toDomain() domain.Lexicon {
	return domain.Lexicon{
		ID:           r.ID,
		LanguageID:   r.LanguageID,
		SourceID:     r.SourceID,
		WordID:       r.WordID,
		Entry:        r.Entry,
		PhonEntry:    nullToString(r.PhonEntry),
		SourceGloss:  nullToString(r.SourceGloss),
		Annotation:   nullToString(r.Annotation),
		Loan:         nullToBool(r.Loan),
		LoanSourceID: nullToInt64Ptr(r.LoanSourceID),
		Added:        nullToTime(r.Added),
	}
}

const lexiconColumns = `id, language_id, source_id, word_id, entry, phon_entry,
	source_gloss, annotation, loan, loan_source_id, added`

// lexiconInsertArgs prepares arguments for lexicon INSERT
// Returns: language_id, source_id, word_id, entry, phon_entry, source_gloss,
//
//	annotation, loan, loan_source_id
func lexiconInsertArgs(l *domain.Lexicon) []any {
	return []any{
		l.LanguageID,
		l.SourceID,
		l.WordID,
		l.Entry,
		stringToNull(l.PhonEntry),
		stringToNull(l.SourceGloss),
		stringToNull(l.Annotation),
		boolToInt(l.Loan),
		int64PtrToNull(l.LoanSourceID),
	}
}

const lexiconInsert = `INSERT INTO lexicon (language_id, source_id, word_id, entry, phon_entry,
	source_gloss, annotation, loan, loan_source_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ============================================================================
// Cognate Set Row Scanner
// ============================================================================

type cognateSetRow struct {
	ID        int64
	Protoform sql.NullString
	Gloss     sql.NullString
	Comment   sql.NullString
	SourceID  sql.NullInt64
	Quality   string
	Added     sql.NullTime
}

// scanArgs MUST match cognateSetColumns order
func (r *cognateSetRow) scanArgs() []any {
	return []any{&r.ID, &r.Protoform, &r.Gloss, &r.Comment, &r.SourceID, &r.Quality, &r.Added}
}

func (r *cognateSetRow) toDomain() domain.CognateSet {
	return domain.CognateSet{
		ID:        r.ID,
		Protoform: nullToString(r.Protoform),
		Gloss:     nullToString(r.Gloss),
		Comment:   nullToString(r.Comment),
		SourceID:  nullToInt64Ptr(r.SourceID),
		Quality:   domain.Quality(r.Quality),
		Added:     nullToTime(r.Added),
	}
}

const cognateSetColumns = `id, protoform, gloss, comment, source_id, quality, added`

// ============================================================================
// Cognate Row Scanner
// ============================================================================

type cognateRow struct {
	ID           int64
	LexiconID    int64
	CognateSetID int64
	SourceID     sql.NullInt64
	Comment      sql.NullString
	Flag         string
	Added        sql.NullTime
}

// scanArgs MUST match cognateColumns order
func (r *cognateRow) scanArgs() []any {
	return []any{&r.ID, &r.LexiconID, &r.CognateSetID, &r.SourceID, &r.Comment, &r.Flag, &r.Added}
}

func (r *cognateRow) toDomain() domain.Cognate {
	return domain.Cognate{
		ID:           r.ID,
		LexiconID:    r.LexiconID,
		CognateSetID: r.CognateSetID,
		SourceID:     nullToInt64Ptr(r.SourceID),
		Comment:      nullToString(r.Comment),
		Flag:         domain.Quality(r.Flag),
		Added:        nullToTime(r.Added),
	}
}

const cognateColumns = `id, lexicon_id, cognateset_id, source_id, comment, flag, added`

// ============================================================================
// Task Row Scanner
// ============================================================================

type taskRow struct {
	ID          int64
	Name        string
	Description sql.NullString
	LanguageID  sql.NullInt64
	SourceID    sql.NullInt64
	Form        string
	WordlistID  sql.NullInt64
	Done        sql.NullInt64
	Completable sql.NullInt64
	Added       sql.NullTime
}

// scanArgs MUST match taskColumns order
func (r *taskRow) scanArgs() []any {
	return []any{
		&r.ID,          // 1
		&r.Name,        // 2
		&r.Description, // 3
		&r.LanguageID,  // 4
		&r.SourceID,    // 5
		&r.Form,        // 6
		&r.WordlistID,  // 7
		&r.Done,        // 8
		&r.Completable, // 9
		&r.Added,       // 10
	}
}

func (r *taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:          r.ID,
		Name:        r.Name,
		Description: nullToString(r.Description),
		LanguageID:  nullToInt64Ptr(r.LanguageID),
		SourceID:    nullToInt64Ptr(r.SourceID),
		Form:        r.Form,
		WordlistID:  nullToInt64Ptr(r.WordlistID),
		Done:        nullToBool(r.Done),
		Completable: nullToBool(r.Completable),
		Added:       nullToTime(r.Added),
	}
}

const taskColumns = `id, name, description, language_id, source_id, form,
	wordlist_id, done, completable, added`

// nullToTime returns the zero time for NULL timestamps
func nullToTime(nt sql.NullTime) time.Time {
	if nt.Valid {
		return nt.Time
	}
	return time.Time{}
}

// qualify prefixes every column in a column list with a table alias, for
// joins that select from more than one scanned table
func qualify(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
