package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/golf-sidebets-go/internal/games"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResponse represents a comprehensive health check response
type HealthCheckResponse struct {
	Status         HealthStatus           `json:"status"`
	Timestamp      string                 `json:"timestamp"`
	ServiceVersion string                 `json:"service_version"`
	GitCommit      string                 `json:"git_commit,omitempty"`
	BuildTime      string                 `json:"build_time,omitempty"`
	Uptime         string                 `json:"uptime"`
	Checks         map[string]HealthCheck `json:"checks"`
	System         SystemInfo             `json:"system"`
	RequestID      string                 `json:"request_id,omitempty"`
}

// HealthCheck represents an individual health check
type HealthCheck struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked string       `json:"last_checked"`
	Duration    string       `json:"duration,omitempty"`
}

// SystemInfo contains system information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	GOMAXPROCS    int    `json:"gomaxprocs"`
	MemoryAlloc   uint64 `json:"memory_alloc_bytes"`
	MemoryTotal   uint64 `json:"memory_total_bytes"`
	MemorySys     uint64 `json:"memory_sys_bytes"`
	GCCycles      uint32 `json:"gc_cycles"`
}

// handleHealthCheck provides comprehensive health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	// Perform health checks
	checks := make(map[string]HealthCheck)
	overallStatus := HealthStatusHealthy

	// Check games availability
	gameCheck := s.checkGamesHealth()
	checks["games"] = gameCheck
	if gameCheck.Status != HealthStatusHealthy {
		overallStatus = HealthStatusDegraded
	}

	// Check database connectivity
	dbCheck := s.checkDatabaseHealth(r.Context())
	checks["database"] = dbCheck
	if dbCheck.Status == HealthStatusUnhealthy {
		overallStatus = HealthStatusUnhealthy
	} else if dbCheck.Status == HealthStatusDegraded && overallStatus == HealthStatusHealthy {
		overallStatus = HealthStatusDegraded
	}

	response := HealthCheckResponse{
		Status:         overallStatus,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		ServiceVersion: ServiceVersion,
		GitCommit:      GitCommit,
		BuildTime:      BuildTime,
		Uptime:         time.Since(s.startTime).String(),
		Checks:         checks,
		System:         s.getSystemInfo(),
		RequestID:      requestID,
	}

	// Degraded still answers 200; only unhealthy flips the status code
	statusCode := http.StatusOK
	if overallStatus == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	s.writeJSON(w, statusCode, response)
}

// handleReadiness provides readiness probe endpoint
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	ready := true
	message := "Ready"

	// Check if games are loaded
	gameSpecs := games.Specs()
	if len(gameSpecs) == 0 {
		ready = false
		message = "No games available"
	}

	// Check database
	if s.db == nil {
		ready = false
		message = "Database not initialized"
	} else if _, err := s.db.ListSessions(r.Context(), 1, 0); err != nil {
		ready = false
		message = fmt.Sprintf("Database not responding: %v", err)
	}

	response := map[string]interface{}{
		"ready":           ready,
		"message":         message,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"service_version": ServiceVersion,
		"request_id":      requestID,
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	s.writeJSON(w, statusCode, response)
}

// handleLiveness provides liveness probe endpoint
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	// Simple liveness check - just respond if the server is running
	response := map[string]interface{}{
		"alive":           true,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"service_version": ServiceVersion,
		"uptime":          time.Since(s.startTime).String(),
		"request_id":      requestID,
	}

	s.writeJSON(w, http.StatusOK, response)
}

// checkGamesHealth checks if the game variants are properly registered
func (s *Server) checkGamesHealth() HealthCheck {
	start := time.Now()

	gameSpecs := games.Specs()
	status := HealthStatusHealthy
	message := fmt.Sprintf("%d games available", len(gameSpecs))

	if len(gameSpecs) == 0 {
		status = HealthStatusUnhealthy
		message = "No games available"
	} else if len(gameSpecs) < 5 { // murph, skins, kp, snake, wolf
		status = HealthStatusDegraded
		message = fmt.Sprintf("Only %d games available (expected 5)", len(gameSpecs))
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// checkDatabaseHealth checks database connectivity with a cheap query
func (s *Server) checkDatabaseHealth(ctx context.Context) HealthCheck {
	start := time.Now()

	status := HealthStatusHealthy
	message := "Database connection healthy"

	if s.db == nil {
		status = HealthStatusUnhealthy
		message = "Database not initialized"
	} else if _, err := s.db.ListSessions(ctx, 1, 0); err != nil {
		status = HealthStatusUnhealthy
		message = fmt.Sprintf("Database query failed: %v", err)
	}

	return HealthCheck{
		Status:      status,
		Message:     message,
		LastChecked: time.Now().UTC().Format(time.RFC3339),
		Duration:    time.Since(start).String(),
	}
}

// getSystemInfo collects system information
func (s *Server) getSystemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		MemoryAlloc:   m.Alloc,
		MemoryTotal:   m.TotalAlloc,
		MemorySys:     m.Sys,
		GCCycles:      m.NumGC,
	}
}
