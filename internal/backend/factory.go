package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brandmize/internal/metrics"
	"brandmize/internal/platform/memory"
	"brandmize/internal/platform/rest"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger, m *metrics.Metrics) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger:  logger,
		metrics: m,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RESTBackend:
		return f.createRESTBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRESTBackend(config Config) (*BackendResult, error) {
	client := rest.NewClient(rest.Config{
		BaseURL:  config.PlatformBaseURL,
		Email:    config.PlatformEmail,
		Password: config.PlatformPassword,
		Token:    config.PlatformToken,
		Timeout:  config.PlatformTimeout,
	}, f.metrics)

	f.logger.Info("Initialized platform REST backend",
		"base_url", config.PlatformBaseURL,
		"static_token", config.PlatformToken != "")

	return &BackendResult{
		Backend: client,
		Cleanup: func() error {
			client.Teardown()
			return nil
		},
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store := memory.NewSeeded(time.Now().UTC())

	f.logger.Info("Initialized in-memory backend with seeded fixtures")

	return &BackendResult{
		Backend: store,
		Cleanup: nil,
	}, nil
}
