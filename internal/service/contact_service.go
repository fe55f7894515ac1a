package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/repository"
)

type contactService struct {
	repo repository.Repository
}

func NewContactService(repo repository.Repository) ContactService {
	return &contactService{
		repo: repo,
	}
}

func (s *contactService) Create(ctx context.Context, name, phone, email string) (*models.Contact, error) {
	if name == "" && phone == "" && email == "" {
		return nil, validationErr("contact", "at least one of name, phone, email is required")
	}

	contact, err := s.repo.Contact().Create(ctx, name, phone, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

func (s *contactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	contact, err := s.repo.Contact().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

func (s *contactService) List(ctx context.Context, limit int) ([]*models.Contact, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	contacts, err := s.repo.Contact().List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	err := s.repo.Contact().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
