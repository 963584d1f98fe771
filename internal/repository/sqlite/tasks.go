package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"lexibase/internal/domain"
)

// ListTasks returns every task, open tasks first
func (r *Repository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY done, added DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var row taskRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, row.toDomain())
	}
	return tasks, rows.Err()
}

// GetTask retrieves a task and the ids of the lexicon saved against it
func (r *Repository) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var row taskRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	task := row.toDomain()

	rows, err := r.db.QueryContext(ctx,
		`SELECT lexicon_id FROM task_lexicon WHERE task_id = ? ORDER BY lexicon_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query task lexicon: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lexID int64
		if err := rows.Scan(&lexID); err != nil {
			return nil, fmt.Errorf("failed to scan task lexicon: %w", err)
		}
		task.Lexicon = append(task.Lexicon, lexID)
	}
	return &task, rows.Err()
}

// SaveEntries inserts entries, attaches them to the task and, when
// markDone is set, closes the task. All of it happens in one transaction.
func (r *Repository) SaveEntries(ctx context.Context, taskID int64, entries []domain.Lexicon, markDone bool) ([]domain.Lexicon, error) {
	saved := make([]domain.Lexicon, 0, len(entries))

	err := r.withTx(ctx, true, func(tx *sql.Tx) error {
		for i := range entries {
			lex, err := insertLexicon(ctx, tx, &entries[i])
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO task_lexicon (task_id, lexicon_id) VALUES (?, ?)`, taskID, lex.ID); err != nil {
				return fmt.Errorf("failed to attach lexicon to task: %w", err)
			}
			saved = append(saved, *lex)
		}

		if markDone {
			if _, err := tx.ExecContext(ctx, `UPDATE tasks SET done = 1 WHERE id = ?`, taskID); err != nil {
				return fmt.Errorf("failed to mark task done: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// insertLexicon inserts an entry and reads it back so defaults are populated
func insertLexicon(ctx context.Context, q querier, l *domain.Lexicon) (*domain.Lexicon, error) {
	res, err := q.ExecContext(ctx, lexiconInsert, lexiconInsertArgs(l)...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert lexicon: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon id: %w", err)
	}

	var row lexiconRow
	if err := q.QueryRowContext(ctx,
		`SELECT `+lexiconColumns+` FROM lexicon WHERE id = ?`, id).Scan(row.scanArgs()...); err != nil {
		return nil, fmt.Errorf("failed to reload lexicon: %w", err)
	}
	lex := row.toDomain()
	return &lex, nil
}
