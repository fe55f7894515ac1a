package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/teamline/unibox/internal/repository"
)

type healthService struct {
	repo        repository.Repository
	redisClient *redis.Client
	dispatcher  DispatcherControl
	dispatch    DispatchService
}

func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	dispatcher DispatcherControl,
	dispatch DispatchService,
) HealthService {
	return &healthService{
		repo:        repo,
		redisClient: redisClient,
		dispatcher:  dispatcher,
		dispatch:    dispatch,
	}
}

func (s *healthService) GetHealth() *HealthStatus {
	status := &HealthStatus{
		Status: HealthHealthy,
	}

	if s.dispatcher.IsRunning() {
		status.DispatcherStatus = DispatcherRunning
	} else {
		status.DispatcherStatus = DispatcherStopped
	}

	status.DatabaseStatus = s.checkDatabaseHealth()
	status.RedisStatus = s.checkRedisHealth()

	state, requests, failures := s.dispatch.GetCircuitBreakerStatus()
	status.CircuitBreakerState = state
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.DatabaseStatus != ComponentConnected || status.RedisStatus != ComponentConnected {
		status.Status = HealthUnhealthy
	}

	// An open breaker degrades the service without making it unreachable.
	if state == BreakerOpen {
		status.Status = HealthDegraded
	}

	return status
}

func (s *healthService) checkDatabaseHealth() string {
	if err := s.repo.Ping(); err != nil {
		return ComponentDisconnected
	}
	return ComponentConnected
}

func (s *healthService) checkRedisHealth() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return ComponentDisconnected
	}

	return ComponentConnected
}
