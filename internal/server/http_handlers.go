package server

import (
	"encoding/json"
	"log"
	"net/http"

	"careernav/internal/extract"
)

const rootMessage = "AI Career Navigator API is running"

// rootHandler identifies the service
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message: rootMessage,
		Version: s.Version,
	})
}

// healthHandler reports tagger availability and accepted upload formats.
// A tripped tagger circuit breaker degrades the status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:           "healthy",
		NLPLoaded:        s.Service.NLPLoaded(),
		Tagger:           s.Service.TaggerName(),
		SupportedFormats: extract.SupportedExtensions(),
	}

	status := http.StatusOK
	if health := s.Service.TaggerHealth(); health != nil {
		response.CircuitBreaker = health
		if healthy, ok := health["healthy"].(bool); ok && !healthy {
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, response)
}

// statsHandler provides analysis counters and rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.Service.Stats()

	response := map[string]any{
		"service":          "careernav",
		"version":          s.Version,
		"resumes_analyzed": stats.ResumesAnalyzed,
		"failed":           stats.Failed,
		"average_score":    stats.AverageScore,
		"accuracy_rate":    stats.AccuracyRate,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, statusCode int, detail, code string) {
	writeJSON(w, statusCode, ErrorResponse{
		Detail: detail,
		Code:   code,
	})
}
