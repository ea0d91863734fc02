package server

import (
	"net/http"
	"slices"
	"strings"

	"careernav/internal/errors"
	"careernav/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) http.Handler {
	mux := http.NewServeMux()

	rateLimitHandler := s.rateLimitMiddleware(func(r *http.Request) {
		om.RecordRateLimitHit(r.Context(), r.URL.Path, r.Method)
	})
	requestLimitHandler := s.requestSizeLimitMiddleware()
	analyzeHandler := rateLimitHandler(
		s.authMiddleware(requestLimitHandler(s.createAnalyzeHandler(om))),
	)

	mux.HandleFunc("GET /{$}", s.rootHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("POST /analyze_resume", analyzeHandler)
	mux.HandleFunc("POST /analyze", analyzeHandler)

	return s.corsMiddleware(mux)
}

// authMiddleware accepts a configured API key (X-API-Key or Bearer) or a
// bearer JWT signed with the configured secret
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no credentials are configured
		if !s.authRequired() {
			next(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		bearer := ""
		if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			bearer = strings.TrimSpace(after)
		}

		if apiKey == "" && bearer == "" {
			s.Logger.Info("Authentication failed: missing credentials",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, http.StatusUnauthorized,
				"Missing API key: X-API-Key header or Authorization Bearer token required", errors.ErrCodeMissingAPIKey)
			return
		}

		if apiKey != "" {
			if !s.APIKeys[apiKey] {
				s.Logger.Info("Authentication failed: invalid API key",
					"endpoint", r.URL.Path,
					"client_ip", r.RemoteAddr,
					"api_key_prefix", maskAPIKey(apiKey))
				writeErrorResponse(w, http.StatusUnauthorized, "Invalid API key", errors.ErrCodeUnauthorized)
				return
			}
			s.Logger.Debug("API authentication successful",
				"endpoint", r.URL.Path,
				"api_key_prefix", maskAPIKey(apiKey))
			next(w, r)
			return
		}

		if s.APIKeys[bearer] {
			s.Logger.Debug("API authentication successful",
				"endpoint", r.URL.Path,
				"api_key_prefix", maskAPIKey(bearer))
			next(w, r)
			return
		}

		if len(s.JWTSecret) > 0 {
			claims, err := validateToken(bearer, s.JWTSecret)
			if err == nil {
				s.Logger.Debug("JWT authentication successful",
					"endpoint", r.URL.Path,
					"subject", claims.Subject)
				next(w, r)
				return
			}
			s.Logger.Info("Authentication failed: invalid token",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"error", err.Error())
			writeErrorResponse(w, http.StatusUnauthorized, "Invalid token", errors.ErrCodeUnauthorized)
			return
		}

		s.Logger.Info("Authentication failed: invalid API key",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(bearer))
		writeErrorResponse(w, http.StatusUnauthorized, "Invalid API key", errors.ErrCodeUnauthorized)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// corsMiddleware answers preflight requests and sets CORS headers for
// allowed origins
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	if slices.Contains(s.CORSOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(s.CORSOrigins, origin) {
		return origin
	}
	return ""
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
