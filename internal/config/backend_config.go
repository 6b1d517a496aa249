package config

import (
	"strings"
	"time"
)

// APIBaseURLEnvVar names the backend base URL variable. Handlers read it per
// request so a missing value is reported by each call rather than at startup.
const APIBaseURLEnvVar = "API_BASE_URL"

type BackendConfig interface {
	GetAPIBaseURL() string
	GetBackendTimeout() time.Duration
}

type Backend struct{}

var _ BackendConfig = Backend{}

// GetAPIBaseURL returns the backend base URL without a trailing slash, or "" when unset.
func (Backend) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(APIBaseURLEnvVar, ""), "/")
}

func (Backend) GetBackendTimeout() time.Duration {
	return GetDuration("BACKEND_TIMEOUT", 15*time.Second)
}
