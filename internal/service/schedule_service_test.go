package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/repository"
	"github.com/teamline/unibox/internal/repository/mocks"
	"github.com/teamline/unibox/internal/service"
)

func newScheduleMocks(t *testing.T) (*mocks.MockRepository, *mocks.MockScheduleRepository, *mocks.MockContactRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockRepository(ctrl)
	mockSchedule := mocks.NewMockScheduleRepository(ctrl)
	mockContact := mocks.NewMockContactRepository(ctrl)
	mockRepo.EXPECT().Schedule().Return(mockSchedule).AnyTimes()
	mockRepo.EXPECT().Contact().Return(mockContact).AnyTimes()
	return mockRepo, mockSchedule, mockContact
}

func TestScheduleService_Schedule(t *testing.T) {
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		req        service.ScheduleRequest
		setupMocks func(sched *mocks.MockScheduleRepository, contacts *mocks.MockContactRepository)
		wantErr    error
		wantField  string
	}{
		{
			name: "creates a pending schedule",
			req: service.ScheduleRequest{
				ContactID:   "contact-1",
				Body:        "see you tomorrow",
				Channel:     models.ChannelSMS,
				ScheduledAt: future,
			},
			setupMocks: func(sched *mocks.MockScheduleRepository, contacts *mocks.MockContactRepository) {
				contacts.EXPECT().GetByID(gomock.Any(), "contact-1").
					Return(&models.Contact{ID: "contact-1"}, nil)
				sched.EXPECT().Create(gomock.Any(), "contact-1", "see you tomorrow", models.ChannelSMS, future).
					Return(&models.ScheduledMessage{
						ID:          "sched-1",
						ContactID:   "contact-1",
						Channel:     models.ChannelSMS,
						Body:        "see you tomorrow",
						ScheduledAt: future,
						Status:      models.ScheduleStatusPending,
					}, nil)
			},
		},
		{
			name: "rejects empty body",
			req: service.ScheduleRequest{
				ContactID:   "contact-1",
				Channel:     models.ChannelSMS,
				ScheduledAt: future,
			},
			setupMocks: func(*mocks.MockScheduleRepository, *mocks.MockContactRepository) {},
			wantField:  "body",
		},
		{
			name: "rejects scheduled time in the past",
			req: service.ScheduleRequest{
				ContactID:   "contact-1",
				Body:        "too late",
				Channel:     models.ChannelSMS,
				ScheduledAt: time.Now().Add(-time.Minute),
			},
			setupMocks: func(*mocks.MockScheduleRepository, *mocks.MockContactRepository) {},
			wantField:  "scheduled_at",
		},
		{
			name: "rejects unknown contact",
			req: service.ScheduleRequest{
				ContactID:   "contact-missing",
				Body:        "hello",
				Channel:     models.ChannelSMS,
				ScheduledAt: future,
			},
			setupMocks: func(_ *mocks.MockScheduleRepository, contacts *mocks.MockContactRepository) {
				contacts.EXPECT().GetByID(gomock.Any(), "contact-missing").
					Return(nil, repository.ErrNotFound)
			},
			wantErr: service.ErrContactNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo, mockSchedule, mockContact := newScheduleMocks(t)
			tt.setupMocks(mockSchedule, mockContact)

			svc := service.NewScheduleService(mockRepo, zap.NewNop())
			created, err := svc.Schedule(context.Background(), tt.req)

			if tt.wantField != "" {
				var verr *service.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				assert.Nil(t, created)
				return
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, models.ScheduleStatusPending, created.Status)
			assert.NotNil(t, created.Contact)
		})
	}
}

func TestScheduleService_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(sched *mocks.MockScheduleRepository)
		wantErr    error
	}{
		{
			name: "cancels a pending schedule",
			setupMocks: func(sched *mocks.MockScheduleRepository) {
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(nil)
			},
		},
		{
			name: "sent schedule cannot be cancelled",
			setupMocks: func(sched *mocks.MockScheduleRepository) {
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(repository.ErrInvalidState)
				sched.EXPECT().GetByID(gomock.Any(), "sched-1").
					Return(&models.ScheduledMessage{ID: "sched-1", Status: models.ScheduleStatusSent}, nil)
			},
			wantErr: service.ErrNotPending,
		},
		{
			name: "missing schedule",
			setupMocks: func(sched *mocks.MockScheduleRepository) {
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(repository.ErrInvalidState)
				sched.EXPECT().GetByID(gomock.Any(), "sched-1").
					Return(nil, repository.ErrNotFound)
			},
			wantErr: service.ErrScheduleNotFound,
		},
		{
			name: "storage error surfaces",
			setupMocks: func(sched *mocks.MockScheduleRepository) {
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(errors.New("connection refused"))
			},
			wantErr: errors.New("failed to cancel schedule"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo, mockSchedule, _ := newScheduleMocks(t)
			tt.setupMocks(mockSchedule)

			svc := service.NewScheduleService(mockRepo, zap.NewNop())
			err := svc.Cancel(context.Background(), "sched-1")

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if errors.Is(tt.wantErr, service.ErrNotPending) || errors.Is(tt.wantErr, service.ErrScheduleNotFound) {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestScheduleService_List(t *testing.T) {
	now := time.Now()
	mockRepo, mockSchedule, _ := newScheduleMocks(t)
	mockSchedule.EXPECT().List(gomock.Any(), nil).
		Return(sampleSchedules(now), nil)

	svc := service.NewScheduleService(mockRepo, zap.NewNop())
	resp, err := svc.List(context.Background(), service.FilterSent)

	require.NoError(t, err)
	assert.Equal(t, service.ScheduleSummary{Pending: 3, Sent: 2, Cancelled: 1}, resp.Summary)
	require.Len(t, resp.Schedules, 2)
	for _, v := range resp.Schedules {
		assert.Equal(t, models.ScheduleStatusSent, v.Status)
		assert.False(t, v.Upcoming)
	}
}
