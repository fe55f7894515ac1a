package service

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/config"
	"github.com/teamline/unibox/internal/realtime"
	"github.com/teamline/unibox/internal/repository"
	"github.com/teamline/unibox/internal/sender"
)

type Service struct {
	Dispatch   DispatchService
	Dispatcher DispatcherControl
	Schedule   ScheduleService
	Message    MessageService
	Contact    ContactService
	Note       NoteService
	Health     HealthService
}

func NewService(
	cfg *config.Config,
	repo repository.Repository,
	snd sender.Sender,
	publisher realtime.Publisher,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	dispatchService := NewDispatchService(cfg, repo, snd, publisher, redisClient, logger)
	dispatcherControl := NewDispatcherControl(cfg, dispatchService, logger)
	scheduleService := NewScheduleService(repo, logger)
	messageService := NewMessageService(repo, snd, publisher, logger)
	contactService := NewContactService(repo)
	noteService := NewNoteService(repo)
	healthService := NewHealthService(repo, redisClient, dispatcherControl, dispatchService)

	return &Service{
		Dispatch:   dispatchService,
		Dispatcher: dispatcherControl,
		Schedule:   scheduleService,
		Message:    messageService,
		Contact:    contactService,
		Note:       noteService,
		Health:     healthService,
	}
}
