package backend

import (
	"context"
	"testing"
	"time"

	"brandmize/internal/config"
	"brandmize/internal/metrics"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "memory backend needs nothing",
			config: Config{Type: MemoryBackend},
		},
		{
			name: "rest backend with token",
			config: Config{
				Type:            RESTBackend,
				PlatformBaseURL: "https://api.example.com",
				PlatformToken:   "tok",
				PlatformTimeout: 10 * time.Second,
			},
		},
		{
			name: "rest backend with credentials",
			config: Config{
				Type:             RESTBackend,
				PlatformBaseURL:  "https://api.example.com",
				PlatformEmail:    "ops@example.com",
				PlatformPassword: "secret",
				PlatformTimeout:  10 * time.Second,
			},
		},
		{
			name: "rest backend without auth",
			config: Config{
				Type:            RESTBackend,
				PlatformBaseURL: "https://api.example.com",
				PlatformTimeout: 10 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "rest backend with bad URL",
			config: Config{
				Type:            RESTBackend,
				PlatformBaseURL: "not a url",
				PlatformToken:   "tok",
				PlatformTimeout: 10 * time.Second,
			},
			wantErr: true,
		},
		{
			name: "rest backend with tiny timeout",
			config: Config{
				Type:            RESTBackend,
				PlatformBaseURL: "https://api.example.com",
				PlatformToken:   "tok",
				PlatformTimeout: 100 * time.Millisecond,
			},
			wantErr: true,
		},
		{
			name:    "unknown type",
			config:  Config{Type: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:     "rest",
		PlatformBaseURL: "https://api.example.com",
		PlatformToken:   "tok",
		PlatformTimeout: 10 * time.Second,
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != RESTBackend {
		t.Errorf("Type = %v, want rest", cfg.Type)
	}
	if cfg.PlatformToken != "tok" {
		t.Errorf("PlatformToken = %q", cfg.PlatformToken)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil app config accepted")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "csv"}); err == nil {
		t.Error("unknown backend type accepted")
	}
}

func TestFactoryCreateBackend(t *testing.T) {
	factory := NewFactory(nil, metrics.New())

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if result.Backend == nil {
		t.Fatal("memory backend is nil")
	}
	// Seeded store must serve the assistant out of the box.
	if _, err := result.Backend.GetAssistant(context.Background()); err != nil {
		t.Errorf("GetAssistant() error = %v", err)
	}

	restResult, err := factory.CreateBackend(context.Background(), Config{
		Type:            RESTBackend,
		PlatformBaseURL: "https://api.example.com",
		PlatformToken:   "tok",
		PlatformTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("rest backend: %v", err)
	}
	if restResult.Cleanup == nil {
		t.Error("rest backend has no cleanup")
	}
	if err := restResult.Cleanup(); err != nil {
		t.Errorf("Cleanup() error = %v", err)
	}

	if _, err := factory.CreateBackend(context.Background(), Config{Type: "bolt"}); err == nil {
		t.Error("invalid backend type accepted")
	}
}
