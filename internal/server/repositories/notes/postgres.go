// Package notes provides the PostgreSQL-backed note store with owner-scoped
// queries.
package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/dbx"
	"github.com/dberezin/securenotes/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// Tags are stored as a jsonb column.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// Create inserts a note for its owner and returns it with the generated id
// and timestamps filled in.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	tags, err := marshalTags(note.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags encode error: %w", err)
	}

	note.ID = uuid.NewString()

	query :=
		`INSERT INTO notes (id, user_id, title, content, tags)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Content, tags).Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

// ListByOwner returns all notes belonging to ownerID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error) {
	query :=
		`SELECT id, user_id, title, content, tags, created_at, updated_at FROM notes
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		var item models.Note
		var tags []byte
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Content, &tags,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, fmt.Errorf("tags decode error: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies the non-nil patch fields to the note identified by
// (ownerID, id) and returns the updated row. A row owned by someone else is
// indistinguishable from an absent one: both return common.ErrNotFound.
func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, patch *models.NotePatch) (*models.Note, error) {

	var tags []byte
	if patch.Tags != nil {
		encoded, err := marshalTags(*patch.Tags)
		if err != nil {
			return nil, fmt.Errorf("tags encode error: %w", err)
		}
		tags = encoded
	}

	query :=
		`UPDATE notes SET
			title = COALESCE($3, title),
			content = COALESCE($4, content),
			tags = COALESCE($5, tags),
			updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, title, content, tags, created_at, updated_at
		 `

	note := &models.Note{}
	var storedTags []byte
	err := r.db.QueryRowContext(ctx, query, id, ownerID, patch.Title, patch.Content, tags).Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content, &storedTags,
		&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(storedTags, &note.Tags); err != nil {
		return nil, fmt.Errorf("tags decode error: %w", err)
	}
	return note, nil
}

// Delete removes the note identified by (ownerID, id). Deleting an absent or
// differently-owned note returns common.ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query :=
		`DELETE FROM notes
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
