package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/sentry-mcp/internal/config"
	"github.com/rpggio/sentry-mcp/internal/domain/issue"
	"github.com/rpggio/sentry-mcp/internal/domain/project"
	"github.com/rpggio/sentry-mcp/internal/llm"
	"github.com/rpggio/sentry-mcp/internal/mcp"
	"github.com/rpggio/sentry-mcp/internal/sentry"
	"github.com/rpggio/sentry-mcp/internal/sqlite"
	"github.com/spf13/cobra"
)

var version = "dev"

type flagValues struct {
	sentryToken string
	sentryOrg   string
	sentryHost  string
	model       string
	openAIKey   string
	openAIBase  string
	transport   string
	logLevel    string
	dbPath      string
	configPath  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags flagValues
	cmd := &cobra.Command{
		Use:           "sentry-mcp",
		Short:         "MCP server exposing Sentry projects and issues as tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("config") {
				if err := os.Setenv("SENTRY_MCP_CONFIG_PATH", flags.configPath); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "config error: %v\n", err)
				return err
			}
			applyFlags(cmd, flags, &cfg)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "config error: %v\n", err)
				return err
			}
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.sentryToken, "sentry-api-token", "", "Sentry API token (SENTRY_API_TOKEN)")
	f.StringVar(&flags.sentryOrg, "sentry-org", "", "Sentry organization slug (SENTRY_ORG)")
	f.StringVar(&flags.sentryHost, "sentry-host", "", "Sentry base URL (SENTRY_HOST)")
	f.StringVar(&flags.model, "model", "", "LLM used to resolve ambiguous project names (LLM_MODEL)")
	f.StringVar(&flags.openAIKey, "openai-api-key", "", "API key for the LLM endpoint (OPENAI_API_KEY)")
	f.StringVar(&flags.openAIBase, "openai-base-url", "", "OpenAI-compatible endpoint (OPENAI_BASE_URL)")
	f.StringVar(&flags.transport, "transport", "", "stdio or http (SENTRY_MCP_TRANSPORT)")
	f.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (SENTRY_MCP_LOG_LEVEL)")
	f.StringVar(&flags.dbPath, "db-path", "", "project cache database, or :memory: (SENTRY_MCP_DB_PATH)")
	f.StringVar(&flags.configPath, "config", "", "YAML config file (SENTRY_MCP_CONFIG_PATH)")
	return cmd
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, flags flagValues, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("sentry-api-token", &cfg.Sentry.APIToken, flags.sentryToken)
	set("sentry-org", &cfg.Sentry.Organization, flags.sentryOrg)
	set("sentry-host", &cfg.Sentry.Host, flags.sentryHost)
	set("model", &cfg.LLM.Model, flags.model)
	set("openai-api-key", &cfg.LLM.APIKey, flags.openAIKey)
	set("openai-base-url", &cfg.LLM.BaseURL, flags.openAIBase)
	set("transport", &cfg.Transport.Mode, flags.transport)
	set("log-level", &cfg.Log.Level, flags.logLevel)
	set("db-path", &cfg.DB.Path, flags.dbPath)
}

func run(cfg config.Config) error {
	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		return err
	}

	db, err := sqlite.New(sqliteDSN(cfg.DB.Path))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return err
	}

	sentryClient, err := sentry.New(sentry.Config{
		APIToken:     cfg.Sentry.APIToken,
		Organization: cfg.Sentry.Organization,
		Host:         cfg.Sentry.Host,
		HTTPClient:   &http.Client{Timeout: time.Duration(cfg.Sentry.TimeoutSeconds) * time.Second},
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to create sentry client", "error", err)
		return err
	}

	completer, err := llm.New(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to create llm client", "error", err)
		return err
	}

	cache := project.NewCache(sentryClient, project.CacheConfig{
		TTL:      time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		Store:    sqlite.NewSnapshotRepository(db),
		StoreKey: sentryClient.BaseURL() + "|" + sentryClient.Organization(),
		Logger:   logger,
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Resolver: project.NewResolver(cache, completer, logger),
			Projects: project.NewService(sentryClient, logger),
			Issues:   issue.NewService(sentryClient, logger),
		},
		AuthToken:     cfg.Server.AuthToken,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
		Version:       version,
	})

	logger.Info("sentry-mcp configured",
		"organization", cfg.Sentry.Organization,
		"host", cfg.Sentry.Host,
		"model", llm.ModelName(cfg.LLM.Model),
		"transport", cfg.Transport.Mode)

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(logger, mcpServer)
	}
	return runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port, cfg.Server.AuthToken != "")
}

// sqliteDSN enables foreign keys on every pooled connection of a file database.
func sqliteDSN(path string) string {
	if path == ":memory:" || path == "" {
		return ":memory:"
	}
	return "file:" + path + "?_pragma=foreign_keys(1)"
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Create stdio transport
	transport := &sdkmcp.StdioTransport{}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		return err
	}
	return nil
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int, auth bool) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mcp.NewHTTPHandler(mcpServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", auth)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			errc <- err
		}
	}()

	return waitForShutdown(logger, httpServer, errc)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, errc <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errc:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
