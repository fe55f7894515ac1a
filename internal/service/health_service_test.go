package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/repository/mocks"
	"github.com/teamline/unibox/internal/service"
)

type stubDispatcherControl struct {
	running bool
}

func (c *stubDispatcherControl) Start() error    { c.running = true; return nil }
func (c *stubDispatcherControl) Stop() error     { c.running = false; return nil }
func (c *stubDispatcherControl) IsRunning() bool { return c.running }

// unreachableRedis returns a client whose pings always fail fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestHealthService_GetHealth(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		running        bool
		wantStatus     string
		wantDatabase   string
		wantDispatcher string
	}{
		{
			name:           "database down makes the service unhealthy",
			pingErr:        errors.New("connection refused"),
			running:        true,
			wantStatus:     service.HealthUnhealthy,
			wantDatabase:   service.ComponentDisconnected,
			wantDispatcher: service.DispatcherRunning,
		},
		{
			name:           "redis down makes the service unhealthy",
			running:        false,
			wantStatus:     service.HealthUnhealthy,
			wantDatabase:   service.ComponentConnected,
			wantDispatcher: service.DispatcherStopped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockRepository(ctrl)
			mockRepo.EXPECT().Ping().Return(tt.pingErr)

			dispatch := service.NewDispatchService(dispatchTestConfig(), mockRepo, &stubSender{}, &stubPublisher{}, nil, zap.NewNop())
			health := service.NewHealthService(mockRepo, unreachableRedis(), &stubDispatcherControl{running: tt.running}, dispatch)

			status := health.GetHealth()
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantDatabase, status.DatabaseStatus)
			assert.Equal(t, service.ComponentDisconnected, status.RedisStatus)
			assert.Equal(t, tt.wantDispatcher, status.DispatcherStatus)
			assert.Equal(t, service.BreakerClosed, status.CircuitBreakerState)
			assert.Equal(t, "No requests yet", status.CircuitBreakerStatus)
		})
	}
}
