package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/realtime"
	"github.com/teamline/unibox/internal/repository"
	"github.com/teamline/unibox/internal/sender"
)

// SendRequest is a validated send-now payload.
type SendRequest struct {
	To       string
	Body     string
	Channel  models.Channel
	SenderID string
}

type messageService struct {
	repo      repository.Repository
	sender    sender.Sender
	publisher realtime.Publisher
	logger    *zap.Logger
}

func NewMessageService(
	repo repository.Repository,
	snd sender.Sender,
	publisher realtime.Publisher,
	logger *zap.Logger,
) MessageService {
	return &messageService{
		repo:      repo,
		sender:    snd,
		publisher: publisher,
		logger:    logger,
	}
}

// SendNow sends a message immediately, creating the contact if the number is
// new. Unlike the dispatcher, this path surfaces transport errors to the
// caller since a user is waiting on the response.
func (s *messageService) SendNow(ctx context.Context, req SendRequest) (*models.Message, error) {
	if req.To == "" {
		return nil, validationErr("to", "must not be empty")
	}
	if req.Body == "" {
		return nil, validationErr("body", "must not be empty")
	}
	if !req.Channel.Dispatchable() {
		return nil, validationErr("channel", "must be SMS or WHATSAPP")
	}

	contact, err := s.repo.Contact().FindByPhone(ctx, req.To)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up contact: %w", err)
		}
		contact, err = s.repo.Contact().Create(ctx, req.To, req.To, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
	}

	providerRef, err := s.sender.Send(ctx, req.To, req.Body, req.Channel)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	message, err := s.repo.Message().CreateOutbound(ctx, contact.ID, req.SenderID, req.Body, req.Channel)
	if err != nil {
		return nil, fmt.Errorf("sent but failed to record message: %w", err)
	}

	if err := s.publisher.Publish(ctx, realtime.ChannelInbox, realtime.EventMessageNew, message); err != nil {
		s.logger.Warn("Failed to publish message event",
			zap.String("messageID", message.ID),
			zap.Error(err))
	}

	s.logger.Info("Message sent",
		zap.String("messageID", message.ID),
		zap.String("contactID", contact.ID),
		zap.String("providerRef", providerRef))

	return message, nil
}

// ReceiveInbound records a message delivered by the provider webhook,
// creating the contact on first touch.
func (s *messageService) ReceiveInbound(ctx context.Context, from, body string, channel models.Channel) (*models.Message, error) {
	if from == "" || body == "" {
		return nil, validationErr("payload", "from and body are required")
	}

	contact, err := s.repo.Contact().FindByPhone(ctx, from)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up contact: %w", err)
		}
		contact, err = s.repo.Contact().Create(ctx, from, from, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create contact: %w", err)
		}
	}

	message, err := s.repo.Message().CreateInbound(ctx, contact.ID, body, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to record inbound message: %w", err)
	}

	if err := s.publisher.Publish(ctx, realtime.ChannelInbox, realtime.EventMessageNew, message); err != nil {
		s.logger.Warn("Failed to publish inbound message event",
			zap.String("messageID", message.ID),
			zap.Error(err))
	}

	return message, nil
}

func (s *messageService) ListByContact(ctx context.Context, contactID string, limit int) ([]*models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	messages, err := s.repo.Message().ListByContact(ctx, contactID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

func (s *messageService) MarkRead(ctx context.Context, id string) error {
	err := s.repo.Message().MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

func (s *messageService) ChannelCounts(ctx context.Context) (map[models.Channel]int64, error) {
	counts, err := s.repo.Message().CountByChannel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	return counts, nil
}
