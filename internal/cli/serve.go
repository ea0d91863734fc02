package cli

import (
	"fmt"

	"careernav/internal/server"

	"github.com/spf13/cobra"
)

// multipartOverhead leaves room for form boundaries and headers around the
// uploaded file
const multipartOverhead = 64 << 10

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume analysis HTTP API",
	Long: `Start an HTTP server that scores uploaded resumes.

Available endpoints:
- POST /analyze_resume: Analyze an uploaded resume (multipart field "file")
- POST /analyze: Alias of /analyze_resume
- GET /: Service banner
- GET /health: Health check endpoint
- GET /stats: Analysis counters and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server
- Use --cert-file and --key-file for TLS certificates`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	overrideString(cmd, "port", &cfg.Server.Port)
	overrideString(cmd, "host", &cfg.Server.Host)
	overrideString(cmd, "tls-mode", &cfg.Server.TLS.Mode)
	overrideString(cmd, "cert-file", &cfg.Server.TLS.CertFile)
	overrideString(cmd, "key-file", &cfg.Server.TLS.KeyFile)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	service, om, err := newAnalysisService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownObservability(om, logger)

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		JWTSecret:      cfg.Server.JWTSecret,
		CORSOrigins:    cfg.Server.CORSOrigins,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize + multipartOverhead,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, service, serverCfg, logger).Start(om)
}

// overrideString copies a flag value into target when the flag was set
func overrideString(cmd *cobra.Command, flag string, target *string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	if value, err := cmd.Flags().GetString(flag); err == nil {
		*target = value
	}
}

func overrideInt(cmd *cobra.Command, flag string, target *int) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	if value, err := cmd.Flags().GetInt(flag); err == nil {
		*target = value
	}
}
