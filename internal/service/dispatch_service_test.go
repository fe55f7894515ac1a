package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/config"
	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/realtime"
	"github.com/teamline/unibox/internal/repository"
	"github.com/teamline/unibox/internal/repository/mocks"
	"github.com/teamline/unibox/internal/service"
)

type stubSender struct {
	ref   string
	errs  []error
	calls int
	sent  []string
}

func (s *stubSender) Send(_ context.Context, to, _ string, _ models.Channel) (string, error) {
	s.calls++
	s.sent = append(s.sent, to)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return s.ref, nil
}

type stubPublisher struct {
	events []string
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, _, event string, _ interface{}) error {
	p.events = append(p.events, event)
	return p.err
}

func dispatchTestConfig() *config.Config {
	return &config.Config{
		Dispatcher: config.DispatcherConfig{
			IntervalSeconds: 60,
			BatchSize:       100,
		},
		Twilio: config.TwilioConfig{
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxRequests:      3,
				Interval:         60,
				Timeout:          60,
				FailureRatio:     0.6,
				ConsecutiveFails: 1000,
			},
		},
	}
}

func dueMessage(id string, channel models.Channel, phone string) *models.ScheduledMessage {
	contact := &models.Contact{
		ID:   "contact-" + id,
		Name: sql.NullString{String: "Ada", Valid: true},
	}
	if phone != "" {
		contact.Phone = sql.NullString{String: phone, Valid: true}
	}
	return &models.ScheduledMessage{
		ID:          id,
		ContactID:   contact.ID,
		Channel:     channel,
		Body:        "hello from the scheduler",
		ScheduledAt: time.Now().Add(-time.Minute),
		Status:      models.ScheduleStatusPending,
		Contact:     contact,
	}
}

func TestDispatchService_DispatchDue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		senderErrs []error
		setupMocks func(sched *mocks.MockScheduleRepository, msgRepo *mocks.MockMessageRepository)
		wantErr    bool
		wantSends  int
		wantEvents []string
	}{
		{
			name: "sends due message and marks it sent",
			setupMocks: func(sched *mocks.MockScheduleRepository, msgRepo *mocks.MockMessageRepository) {
				msg := dueMessage("sched-1", models.ChannelSMS, "+15551230001")
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{msg}, nil)
				msgRepo.EXPECT().CreateOutbound(gomock.Any(), msg.ContactID, "", msg.Body, models.ChannelSMS).
					Return(&models.Message{ID: "msg-1", ContactID: msg.ContactID}, nil)
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusSent, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, _, _ models.ScheduleStatus, sentAt *time.Time) error {
						require.NotNil(t, sentAt)
						assert.False(t, sentAt.Before(now))
						return nil
					})
			},
			wantSends:  1,
			wantEvents: []string{realtime.EventScheduleSent},
		},
		{
			name: "no due messages is a quiet cycle",
			setupMocks: func(sched *mocks.MockScheduleRepository, _ *mocks.MockMessageRepository) {
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{}, nil)
			},
		},
		{
			name: "due query error is cycle fatal",
			setupMocks: func(sched *mocks.MockScheduleRepository, _ *mocks.MockMessageRepository) {
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
		{
			name: "cancels record whose contact has no phone",
			setupMocks: func(sched *mocks.MockScheduleRepository, _ *mocks.MockMessageRepository) {
				msg := dueMessage("sched-2", models.ChannelSMS, "")
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{msg}, nil)
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-2", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(nil)
			},
		},
		{
			name: "cancels record on a channel without a transport",
			setupMocks: func(sched *mocks.MockScheduleRepository, _ *mocks.MockMessageRepository) {
				msg := dueMessage("sched-3", models.ChannelEmail, "+15551230003")
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{msg}, nil)
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-3", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(nil)
			},
		},
		{
			name:       "send failure leaves the record pending",
			senderErrs: []error{errors.New("provider timeout")},
			setupMocks: func(sched *mocks.MockScheduleRepository, _ *mocks.MockMessageRepository) {
				msg := dueMessage("sched-4", models.ChannelWhatsApp, "+15551230004")
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{msg}, nil)
				// No UpdateStatus and no CreateOutbound: the record is retried
				// untouched on the next cycle.
			},
			wantSends:  1,
			wantEvents: []string{realtime.EventScheduleFailed},
		},
		{
			name: "concurrent cancel after send wins the race",
			setupMocks: func(sched *mocks.MockScheduleRepository, msgRepo *mocks.MockMessageRepository) {
				msg := dueMessage("sched-5", models.ChannelSMS, "+15551230005")
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{msg}, nil)
				msgRepo.EXPECT().CreateOutbound(gomock.Any(), msg.ContactID, "", msg.Body, models.ChannelSMS).
					Return(&models.Message{ID: "msg-5", ContactID: msg.ContactID}, nil)
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-5", models.ScheduleStatusPending, models.ScheduleStatusSent, gomock.Any()).
					Return(repository.ErrInvalidState)
			},
			wantSends: 1,
		},
		{
			name: "failure to record outbound leaves the record pending",
			setupMocks: func(sched *mocks.MockScheduleRepository, msgRepo *mocks.MockMessageRepository) {
				msg := dueMessage("sched-6", models.ChannelSMS, "+15551230006")
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{msg}, nil)
				msgRepo.EXPECT().CreateOutbound(gomock.Any(), msg.ContactID, "", msg.Body, models.ChannelSMS).
					Return(nil, errors.New("insert failed"))
			},
			wantSends: 1,
		},
		{
			name:       "per-record failure does not abort the batch",
			senderErrs: []error{errors.New("provider timeout"), nil},
			setupMocks: func(sched *mocks.MockScheduleRepository, msgRepo *mocks.MockMessageRepository) {
				first := dueMessage("sched-7", models.ChannelSMS, "+15551230007")
				second := dueMessage("sched-8", models.ChannelSMS, "+15551230008")
				sched.EXPECT().FindDuePending(gomock.Any(), now, 100).
					Return([]*models.ScheduledMessage{first, second}, nil)
				msgRepo.EXPECT().CreateOutbound(gomock.Any(), second.ContactID, "", second.Body, models.ChannelSMS).
					Return(&models.Message{ID: "msg-8", ContactID: second.ContactID}, nil)
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-8", models.ScheduleStatusPending, models.ScheduleStatusSent, gomock.Any()).
					Return(nil)
			},
			wantSends:  2,
			wantEvents: []string{realtime.EventScheduleFailed, realtime.EventScheduleSent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockRepository(ctrl)
			mockSchedule := mocks.NewMockScheduleRepository(ctrl)
			mockMessage := mocks.NewMockMessageRepository(ctrl)
			mockRepo.EXPECT().Schedule().Return(mockSchedule).AnyTimes()
			mockRepo.EXPECT().Message().Return(mockMessage).AnyTimes()

			tt.setupMocks(mockSchedule, mockMessage)

			snd := &stubSender{ref: "SMtest", errs: tt.senderErrs}
			pub := &stubPublisher{}
			svc := service.NewDispatchService(dispatchTestConfig(), mockRepo, snd, pub, nil, zap.NewNop())

			err := svc.DispatchDue(context.Background(), now)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantSends, snd.calls)
			assert.Equal(t, tt.wantEvents, pub.events)
		})
	}
}

// A record that fails to send stays pending and goes out on a later cycle
// once the transport recovers.
func TestDispatchService_RetriesUntilSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now()
	msg := dueMessage("sched-retry", models.ChannelSMS, "+15551239999")

	mockRepo := mocks.NewMockRepository(ctrl)
	mockSchedule := mocks.NewMockScheduleRepository(ctrl)
	mockMessage := mocks.NewMockMessageRepository(ctrl)
	mockRepo.EXPECT().Schedule().Return(mockSchedule).AnyTimes()
	mockRepo.EXPECT().Message().Return(mockMessage).AnyTimes()

	gomock.InOrder(
		mockSchedule.EXPECT().FindDuePending(gomock.Any(), gomock.Any(), 100).
			Return([]*models.ScheduledMessage{msg}, nil),
		mockSchedule.EXPECT().FindDuePending(gomock.Any(), gomock.Any(), 100).
			Return([]*models.ScheduledMessage{msg}, nil),
	)
	mockMessage.EXPECT().CreateOutbound(gomock.Any(), msg.ContactID, "", msg.Body, models.ChannelSMS).
		Return(&models.Message{ID: "msg-retry", ContactID: msg.ContactID}, nil)
	mockSchedule.EXPECT().UpdateStatus(gomock.Any(), "sched-retry", models.ScheduleStatusPending, models.ScheduleStatusSent, gomock.Any()).
		Return(nil)

	snd := &stubSender{ref: "SMretry", errs: []error{errors.New("provider timeout")}}
	pub := &stubPublisher{}
	svc := service.NewDispatchService(dispatchTestConfig(), mockRepo, snd, pub, nil, zap.NewNop())

	require.NoError(t, svc.DispatchDue(context.Background(), now))
	require.NoError(t, svc.DispatchDue(context.Background(), now.Add(time.Minute)))
	assert.Equal(t, 2, snd.calls)
	assert.Equal(t, []string{realtime.EventScheduleFailed, realtime.EventScheduleSent}, pub.events)
}

func TestDispatchService_GetCircuitBreakerStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockRepository(ctrl)
	svc := service.NewDispatchService(dispatchTestConfig(), mockRepo, &stubSender{}, &stubPublisher{}, nil, zap.NewNop())

	state, requests, failures := svc.GetCircuitBreakerStatus()
	assert.Equal(t, service.BreakerClosed, state)
	assert.Zero(t, requests)
	assert.Zero(t, failures)
}
