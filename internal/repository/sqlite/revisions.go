package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"lexibase/internal/domain"
)

// insertRevision stores a revision and its versions. A missing id or
// timestamp is filled in, and so is a missing digest when there are
// versions to hash.
func insertRevision(ctx context.Context, q querier, rev *domain.Revision) error {
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}
	if rev.Digest == "" && len(rev.Versions) > 0 {
		rev.Digest = versionsDigest(rev.Versions)
	}

	if _, err := q.ExecContext(ctx,
		`INSERT INTO revisions (id, comment, digest, created_at) VALUES (?, ?, ?, ?)`,
		rev.ID, rev.Comment, stringToNull(rev.Digest), rev.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert revision: %w", err)
	}

	for _, v := range rev.Versions {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO versions (revision_id, kind, object_id, snapshot) VALUES (?, ?, ?, ?)`,
			rev.ID, v.Kind, v.ObjectID, string(v.Snapshot)); err != nil {
			return fmt.Errorf("failed to insert version: %w", err)
		}
	}
	return nil
}

// versionsDigest is the blake2b-256 of the snapshots in order
func versionsDigest(versions []domain.Version) string {
	h, _ := blake2b.New256(nil)
	for _, v := range versions {
		h.Write(v.Snapshot)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetRevision retrieves a revision and its versions
func (r *Repository) GetRevision(ctx context.Context, id string) (*domain.Revision, error) {
	var (
		rev     domain.Revision
		digest  sql.NullString
		created sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, comment, digest, created_at FROM revisions WHERE id = ?`, id).
		Scan(&rev.ID, &rev.Comment, &digest, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}
	rev.Digest = nullToString(digest)
	rev.CreatedAt = nullToTime(created)

	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, object_id, snapshot FROM versions WHERE revision_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			v        domain.Version
			snapshot string
		)
		if err := rows.Scan(&v.Kind, &v.ObjectID, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		v.Snapshot = []byte(snapshot)
		rev.Versions = append(rev.Versions, v)
	}
	return &rev, rows.Err()
}
