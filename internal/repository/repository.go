// Package repository provides sqlx-backed persistence for the inbox schema.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Errors returned by repositories. Callers match with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidState = errors.New("record is not in the expected state")
)

// repositoryImpl is the concrete implementation of Repository interface.
type repositoryImpl struct {
	db       *sqlx.DB
	contact  ContactRepository
	message  MessageRepository
	schedule ScheduleRepository
	note     NoteRepository
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{
		db:       db,
		contact:  NewContactRepository(db),
		message:  NewMessageRepository(db),
		schedule: NewScheduleRepository(db),
		note:     NewNoteRepository(db),
	}
}

func (r *repositoryImpl) Contact() ContactRepository   { return r.contact }
func (r *repositoryImpl) Message() MessageRepository   { return r.message }
func (r *repositoryImpl) Schedule() ScheduleRepository { return r.schedule }
func (r *repositoryImpl) Note() NoteRepository         { return r.note }

// Ping checks if the database connection is healthy.
func (r *repositoryImpl) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
