package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultVersion is reported when Config.Version is empty.
const DefaultVersion = "0.1.0"

// Config contains server configuration.
type Config struct {
	Services Services
	// AuthToken, when set, is required as a bearer token in HTTP mode.
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
	Version       string
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "sentry-mcp",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Stdio is a local, single-user transport; only HTTP checks a token.
	if cfg.TransportMode == "http" && cfg.AuthToken != "" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	// Added last so it wraps the others and the request ID reaches the traffic log.
	server.AddReceivingMiddleware(requestIDMiddleware())
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services), logger)

	return server
}
