package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/handler"
	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/repository"
	"github.com/teamline/unibox/internal/repository/mocks"
	"github.com/teamline/unibox/internal/service"
)

// newScheduleHandler wires a handler over a real schedule service backed by
// mock repositories, mounted on a chi router so URL params resolve.
func newScheduleHandler(t *testing.T) (*chi.Mux, *mocks.MockScheduleRepository, *mocks.MockContactRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockRepository(ctrl)
	mockSchedule := mocks.NewMockScheduleRepository(ctrl)
	mockContact := mocks.NewMockContactRepository(ctrl)
	mockRepo.EXPECT().Schedule().Return(mockSchedule).AnyTimes()
	mockRepo.EXPECT().Contact().Return(mockContact).AnyTimes()

	h := handler.NewHandler(&service.Service{
		Schedule: service.NewScheduleService(mockRepo, zap.NewNop()),
	}, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/schedules", h.CreateSchedule)
	r.Get("/api/schedules", h.ListSchedules)
	r.Delete("/api/schedules/{id}", h.CancelSchedule)
	return r, mockSchedule, mockContact
}

func decodeError(t *testing.T, body *bytes.Buffer) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestCreateSchedule(t *testing.T) {
	future := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	tests := []struct {
		name       string
		payload    string
		setupMocks func(sched *mocks.MockScheduleRepository, contacts *mocks.MockContactRepository)
		wantStatus int
		wantError  string
	}{
		{
			name: "creates a schedule",
			payload: `{"contact_id":"contact-1","body":"see you","channel":"sms","scheduled_at":"` +
				future.Format(time.RFC3339) + `"}`,
			setupMocks: func(sched *mocks.MockScheduleRepository, contacts *mocks.MockContactRepository) {
				contacts.EXPECT().GetByID(gomock.Any(), "contact-1").
					Return(&models.Contact{ID: "contact-1"}, nil)
				sched.EXPECT().Create(gomock.Any(), "contact-1", "see you", models.ChannelSMS, gomock.Any()).
					Return(&models.ScheduledMessage{
						ID:          "sched-1",
						ContactID:   "contact-1",
						Channel:     models.ChannelSMS,
						Body:        "see you",
						ScheduledAt: future,
						Status:      models.ScheduleStatusPending,
					}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "rejects invalid JSON",
			payload:    `{"contact_id":`,
			setupMocks: func(*mocks.MockScheduleRepository, *mocks.MockContactRepository) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "VALIDATION_ERROR",
		},
		{
			name:       "rejects unknown channel",
			payload:    `{"contact_id":"contact-1","body":"x","channel":"carrier-pigeon","scheduled_at":"2099-01-01T00:00:00Z"}`,
			setupMocks: func(*mocks.MockScheduleRepository, *mocks.MockContactRepository) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "VALIDATION_ERROR",
		},
		{
			name:       "rejects malformed timestamp",
			payload:    `{"contact_id":"contact-1","body":"x","channel":"sms","scheduled_at":"tomorrow"}`,
			setupMocks: func(*mocks.MockScheduleRepository, *mocks.MockContactRepository) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "VALIDATION_ERROR",
		},
		{
			name:       "rejects scheduled time in the past",
			payload:    `{"contact_id":"contact-1","body":"x","channel":"sms","scheduled_at":"2020-01-01T00:00:00Z"}`,
			setupMocks: func(*mocks.MockScheduleRepository, *mocks.MockContactRepository) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "VALIDATION_ERROR",
		},
		{
			name: "unknown contact returns 404",
			payload: `{"contact_id":"contact-missing","body":"x","channel":"sms","scheduled_at":"` +
				future.Format(time.RFC3339) + `"}`,
			setupMocks: func(_ *mocks.MockScheduleRepository, contacts *mocks.MockContactRepository) {
				contacts.EXPECT().GetByID(gomock.Any(), "contact-missing").
					Return(nil, repository.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockSchedule, mockContact := newScheduleHandler(t)
			tt.setupMocks(mockSchedule, mockContact)

			req := httptest.NewRequest(http.MethodPost, "/api/schedules", bytes.NewBufferString(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec.Body).Error)
				return
			}

			var created models.ScheduledMessage
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
			assert.Equal(t, "sched-1", created.ID)
			assert.Equal(t, models.ScheduleStatusPending, created.Status)
		})
	}
}

func TestListSchedules(t *testing.T) {
	router, mockSchedule, _ := newScheduleHandler(t)
	now := time.Now()
	mockSchedule.EXPECT().List(gomock.Any(), nil).
		Return([]*models.ScheduledMessage{
			{ID: "sched-1", Status: models.ScheduleStatusPending, ScheduledAt: now.Add(time.Hour)},
			{ID: "sched-2", Status: models.ScheduleStatusSent, ScheduledAt: now.Add(-time.Hour)},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/schedules?status=pending", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.ScheduleListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Schedules, 1)
	assert.Equal(t, "sched-1", resp.Schedules[0].ID)
	assert.True(t, resp.Schedules[0].Upcoming)
	assert.Equal(t, service.ScheduleSummary{Pending: 1, Sent: 1}, resp.Summary)
}

func TestCancelSchedule(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(sched *mocks.MockScheduleRepository)
		wantStatus int
		wantError  string
	}{
		{
			name: "cancels a pending schedule",
			setupMocks: func(sched *mocks.MockScheduleRepository) {
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "sent schedule returns conflict",
			setupMocks: func(sched *mocks.MockScheduleRepository) {
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(repository.ErrInvalidState)
				sched.EXPECT().GetByID(gomock.Any(), "sched-1").
					Return(&models.ScheduledMessage{ID: "sched-1", Status: models.ScheduleStatusSent}, nil)
			},
			wantStatus: http.StatusConflict,
			wantError:  "INVALID_STATE",
		},
		{
			name: "missing schedule returns 404",
			setupMocks: func(sched *mocks.MockScheduleRepository) {
				sched.EXPECT().UpdateStatus(gomock.Any(), "sched-1", models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil).
					Return(repository.ErrInvalidState)
				sched.EXPECT().GetByID(gomock.Any(), "sched-1").
					Return(nil, repository.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockSchedule, _ := newScheduleHandler(t)
			tt.setupMocks(mockSchedule)

			req := httptest.NewRequest(http.MethodDelete, "/api/schedules/sched-1", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec.Body).Error)
			}
		})
	}
}
