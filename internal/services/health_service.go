package services

import (
	"runtime"
	"time"
)

// HealthService reports process health and build information.
type HealthService struct {
	version   string
	startTime time.Time
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// VersionInfo is the version endpoint payload.
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// NewHealthService creates a health service.
func NewHealthService(version string) *HealthService {
	return &HealthService{
		version:   version,
		startTime: time.Now(),
	}
}

// Health returns the current health status.
func (s *HealthService) Health() HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}
}

// Version returns build information.
func (s *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   s.version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
