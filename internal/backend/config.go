package backend

import (
	"fmt"
	"net/url"
	"time"

	"brandmize/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		PlatformBaseURL:  appConfig.PlatformBaseURL,
		PlatformEmail:    appConfig.PlatformEmail,
		PlatformPassword: appConfig.PlatformPassword,
		PlatformToken:    appConfig.PlatformToken,
		PlatformTimeout:  appConfig.PlatformTimeout,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case RESTBackend:
		if u, err := url.Parse(c.PlatformBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid platform base URL %q", c.PlatformBaseURL)
		}
		hasToken := c.PlatformToken != ""
		hasCredentials := c.PlatformEmail != "" && c.PlatformPassword != ""
		if !hasToken && !hasCredentials {
			return fmt.Errorf("either a platform token or email/password credentials are required for the rest backend")
		}
		if c.PlatformTimeout < time.Second {
			return fmt.Errorf("platform timeout %v too short: must be at least 1 second", c.PlatformTimeout)
		}

	case MemoryBackend:
		// No additional requirements.
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{RESTBackend, MemoryBackend}
}
