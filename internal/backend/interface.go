package backend

import (
	"context"
	"time"

	platform "brandmize/internal/platform"
)

// Backend bundles every platform port the dashboard needs.
type Backend interface {
	platform.PaymentReader
	platform.SpendReader
	platform.LeadDirectory
	platform.LeadSink
	platform.NumberCatalog
	platform.CallLog
	platform.AssistantStore
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// REST specific
	PlatformBaseURL  string
	PlatformEmail    string
	PlatformPassword string
	PlatformToken    string
	PlatformTimeout  time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	RESTBackend   BackendType = "rest"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case RESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
