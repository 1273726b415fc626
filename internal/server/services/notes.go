package services

import (
	"context"
	"fmt"

	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/server/models"
	"github.com/dberezin/securenotes/internal/server/repositories/notes"
)

// NoteService exposes owner-scoped note operations. The ownerID argument is
// always the identity bound from the verified bearer token, never client
// input; the ownership invariant lives in the repository's scoped queries.
type NoteService struct {
	notes notes.Repository
}

func NewNoteService(r notes.Repository) *NoteService {
	return &NoteService{notes: r}
}

// Create stores a new note for the owner. Title and content are required.
func (s *NoteService) Create(ctx context.Context, ownerID, title, content string, tags []string) (*models.Note, error) {
	if title == "" || content == "" {
		return nil, common.ErrValidation
	}

	note := &models.Note{
		UserID:  ownerID,
		Title:   title,
		Content: content,
		Tags:    tags,
	}
	created, err := s.notes.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return created, nil
}

// List returns all of the owner's notes. A caller with no notes gets an
// empty slice, never another owner's rows.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]*models.Note, error) {
	result, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	if result == nil {
		result = []*models.Note{}
	}
	return result, nil
}

// Update applies a partial patch to one of the owner's notes. An id owned by
// someone else behaves exactly like a missing one.
func (s *NoteService) Update(ctx context.Context, ownerID, id string, patch *models.NotePatch) (*models.Note, error) {
	updated, err := s.notes.Update(ctx, ownerID, id, patch)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes one of the owner's notes, with the same not-found semantics
// as Update.
func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	return s.notes.Delete(ctx, ownerID, id)
}
