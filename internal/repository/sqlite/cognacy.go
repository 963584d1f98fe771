package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"lexibase/internal/domain"
)

// CandidateLexicon returns every lexicon entry for a word with its language
// and the cognate sets the entry already belongs to
func (r *Repository) CandidateLexicon(ctx context.Context, wordID int64) ([]domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+qualify("l", lexiconColumns)+`, `+qualify("g", languageColumns)+`
		FROM lexicon l JOIN languages g ON g.id = l.language_id
		WHERE l.word_id = ?
		ORDER BY g.classification, g.language, l.entry, l.id`, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	index := make(map[int64]int)
	for rows.Next() {
		var (
			lex  lexiconRow
			lang languageRow
		)
		if err := rows.Scan(append(lex.scanArgs(), lang.scanArgs()...)...); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		index[lex.ID] = len(candidates)
		candidates = append(candidates, domain.Candidate{
			Lexicon:     lex.toDomain(),
			Language:    lang.toDomain(),
			CognateSets: []int64{},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := r.db.QueryContext(ctx, `
		SELECT c.lexicon_id, c.cognateset_id
		FROM cognates c JOIN lexicon l ON l.id = c.lexicon_id
		WHERE l.word_id = ?
		ORDER BY c.cognateset_id`, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate cognates: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var lexID, setID int64
		if err := links.Scan(&lexID, &setID); err != nil {
			return nil, fmt.Errorf("failed to scan candidate cognate: %w", err)
		}
		if i, ok := index[lexID]; ok {
			candidates[i].CognateSets = append(candidates[i].CognateSets, setID)
		}
	}
	return candidates, links.Err()
}

// GetCognateSet retrieves a cognate set with its members and notes
func (r *Repository) GetCognateSet(ctx context.Context, id int64) (*domain.CognateSetDetail, error) {
	set, err := getCognateSet(ctx, r.db, id)
	if err != nil || set == nil {
		return nil, err
	}

	detail := &domain.CognateSetDetail{CognateSet: *set}
	if detail.Members, err = cognateMembers(ctx, r.db, id); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, word_id, cognateset_id, note FROM cognacy_notes WHERE cognateset_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query cognacy notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			note          domain.CognateNote
			wordID, setID sql.NullInt64
		)
		if err := rows.Scan(&note.ID, &wordID, &setID, &note.Note); err != nil {
			return nil, fmt.Errorf("failed to scan cognacy note: %w", err)
		}
		note.WordID = nullToInt64Ptr(wordID)
		note.CognateSetID = nullToInt64Ptr(setID)
		detail.Notes = append(detail.Notes, note)
	}
	return detail, rows.Err()
}

// CognateSetsForWord returns the sets holding at least one entry for a word
func (r *Repository) CognateSetsForWord(ctx context.Context, wordID int64) ([]domain.CognateSet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+qualify("cs", cognateSetColumns)+`
		FROM cognatesets cs
		WHERE cs.id IN (
			SELECT c.cognateset_id FROM cognates c
			JOIN lexicon l ON l.id = c.lexicon_id
			WHERE l.word_id = ?)
		ORDER BY cs.id`, wordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cognate sets: %w", err)
	}
	defer rows.Close()

	sets := []domain.CognateSet{}
	for rows.Next() {
		var row cognateSetRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan cognate set: %w", err)
		}
		sets = append(sets, row.toDomain())
	}
	return sets, rows.Err()
}

// MergeCognateSets moves every cognate of oldID into newID and deletes oldID.
// Cognates whose lexicon is already a member of newID are dropped rather than
// duplicated. Notes follow their set. rev is stored with a snapshot of the
// removed set. Returns (nil, nil) when either set does not exist.
func (r *Repository) MergeCognateSets(ctx context.Context, oldID, newID int64, rev *domain.Revision) (*domain.MergeResult, error) {
	var result *domain.MergeResult

	err := r.withTx(ctx, true, func(tx *sql.Tx) error {
		old, err := getCognateSet(ctx, tx, oldID)
		if err != nil {
			return err
		}
		target, err := getCognateSet(ctx, tx, newID)
		if err != nil {
			return err
		}
		if old == nil || target == nil {
			return nil
		}

		members, err := cognateMembers(ctx, tx, oldID)
		if err != nil {
			return err
		}
		snapshot := struct {
			domain.CognateSet
			Members []domain.Member `json:"members"`
		}{*old, members}
		version, err := domain.NewVersion("cognateset", oldID, snapshot)
		if err != nil {
			return fmt.Errorf("failed to snapshot cognate set: %w", err)
		}
		rev.Versions = append(rev.Versions, version)

		res, err := tx.ExecContext(ctx, `
			DELETE FROM cognates
			WHERE cognateset_id = ? AND lexicon_id IN (
				SELECT lexicon_id FROM cognates WHERE cognateset_id = ?)`, oldID, newID)
		if err != nil {
			return fmt.Errorf("failed to drop duplicate cognates: %w", err)
		}
		duplicates, _ := res.RowsAffected()

		res, err = tx.ExecContext(ctx,
			`UPDATE cognates SET cognateset_id = ? WHERE cognateset_id = ?`, newID, oldID)
		if err != nil {
			return fmt.Errorf("failed to move cognates: %w", err)
		}
		moved, _ := res.RowsAffected()

		if _, err := tx.ExecContext(ctx,
			`UPDATE cognacy_notes SET cognateset_id = ? WHERE cognateset_id = ?`, newID, oldID); err != nil {
			return fmt.Errorf("failed to move cognacy notes: %w", err)
		}

		if err := insertRevision(ctx, tx, rev); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cognatesets WHERE id = ?`, oldID); err != nil {
			return fmt.Errorf("failed to delete cognate set: %w", err)
		}

		result = &domain.MergeResult{
			Target:     *target,
			RemovedID:  oldID,
			Moved:      int(moved),
			Duplicates: int(duplicates),
			RevisionID: rev.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func getCognateSet(ctx context.Context, q querier, id int64) (*domain.CognateSet, error) {
	var row cognateSetRow
	err := q.QueryRowContext(ctx,
		`SELECT `+cognateSetColumns+` FROM cognatesets WHERE id = ?`, id).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cognate set: %w", err)
	}
	set := row.toDomain()
	return &set, nil
}

func cognateMembers(ctx context.Context, q querier, setID int64) ([]domain.Member, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+qualify("c", cognateColumns)+`, `+qualify("l", lexiconColumns)+`, `+qualify("g", languageColumns)+`
		FROM cognates c
		JOIN lexicon l ON l.id = c.lexicon_id
		JOIN languages g ON g.id = l.language_id
		WHERE c.cognateset_id = ?
		ORDER BY g.classification, g.language, l.entry, c.id`, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cognate members: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var (
			cog  cognateRow
			lex  lexiconRow
			lang languageRow
		)
		args := append(cog.scanArgs(), lex.scanArgs()...)
		args = append(args, lang.scanArgs()...)
		if err := rows.Scan(args...); err != nil {
			return nil, fmt.Errorf("failed to scan cognate member: %w", err)
		}
		members = append(members, domain.Member{
			Cognate:  cog.toDomain(),
			Lexicon:  lex.toDomain(),
			Language: lang.toDomain(),
		})
	}
	return members, rows.Err()
}
