package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/repository"
)

type noteService struct {
	repo repository.Repository
}

func NewNoteService(repo repository.Repository) NoteService {
	return &noteService{
		repo: repo,
	}
}

func (s *noteService) Create(ctx context.Context, contactID, authorID, body string, visibility models.NoteVisibility) (*models.Note, error) {
	if body == "" {
		return nil, validationErr("body", "must not be empty")
	}
	if visibility == "" {
		visibility = models.NoteVisibilityPublic
	}

	if _, err := s.repo.Contact().GetByID(ctx, contactID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}

	note, err := s.repo.Note().Create(ctx, contactID, authorID, body, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

func (s *noteService) ListByContact(ctx context.Context, contactID, viewerID string) ([]*models.Note, error) {
	notes, err := s.repo.Note().ListByContact(ctx, contactID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (s *noteService) Update(ctx context.Context, id, authorID, body string) (*models.Note, error) {
	if body == "" {
		return nil, validationErr("body", "must not be empty")
	}

	note, err := s.repo.Note().Update(ctx, id, authorID, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

func (s *noteService) Delete(ctx context.Context, id, authorID string) error {
	err := s.repo.Note().Delete(ctx, id, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
