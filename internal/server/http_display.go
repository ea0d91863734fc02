package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /                - Service banner")
	fmt.Println("  GET  /health          - Health check")
	fmt.Println("  GET  /stats           - Analysis statistics")
	fmt.Println("  POST /analyze_resume  - Analyze an uploaded resume (multipart field \"file\")")
	fmt.Println("  POST /analyze         - Alias of /analyze_resume")
	fmt.Printf("Skill detection: tagger=%s\n", s.Service.TaggerName())
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if !s.authRequired() {
		fmt.Println("API authentication: DISABLED (no API keys or JWT secret configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
		return
	}

	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /analyze_resume")
	}
	if len(s.JWTSecret) > 0 {
		fmt.Println("JWT authentication: ENABLED (HS256 bearer tokens)")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}
