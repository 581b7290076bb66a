package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/esClymax/Appli-Extraction/internal/config"
	"github.com/esClymax/Appli-Extraction/internal/mcp"
	"github.com/esClymax/Appli-Extraction/internal/output"
	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// parseLevel maps a validated configuration level to a slog level
func parseLevel(level string) slog.Level {
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

// setupLogging builds the process logger. Logs always go to stderr; in
// stdio mode they are dropped unless debug is enabled so that nothing can
// interfere with the MCP protocol.
func setupLogging(cfg *config.Config, stderr io.Writer) *slog.Logger {
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		stderr = io.Discard
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.LogLevel),
		AddSource: cfg.IsDebug() && cfg.IsServerMode(),
	}
	logger := slog.New(slog.NewTextHandler(stderr, opts))
	slog.SetDefault(logger)
	return logger
}

// newService wires the PDF reader, the validator and the profile into the
// extraction pipeline
func newService(cfg *config.Config, logger *slog.Logger) (*pipeline.Service, error) {
	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}

	registry, err := profile.Registry()
	if err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}

	rules, err := profile.Rules()
	if err != nil {
		return nil, fmt.Errorf("invalid cleaning rules: %w", err)
	}

	return pipeline.New(pipeline.Options{
		Opener:    pdf.NewReader(cfg.MaxFileSize),
		Registry:  registry,
		Rules:     &rules,
		Filters:   profile.Filters,
		Validator: pdf.NewValidator(cfg.MaxFileSize),
		Logger:    logger,
	})
}

// runBatch extracts every document named on the command line and returns
// the process exit code: 1 when no document produced data.
func runBatch(ctx context.Context, cfg *config.Config, service *pipeline.Service, logger *slog.Logger,
	stdout io.Writer,
) int {
	args := cfg.Paths
	if len(args) == 0 {
		args = []string{cfg.InputDirectory}
	}

	paths, err := pdf.NewSearch(cfg.MaxFileSize).ExpandPaths(args)
	if err != nil {
		logger.Error("cannot list documents", "error", err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintf(stdout, "No PDF files found in: %v\n", args)
		return 1
	}

	writer, err := output.NewWriter(cfg.OutputDirectory, cfg.Format, logger)
	if err != nil {
		logger.Error("invalid output configuration", "error", err)
		return 1
	}

	batch, err := service.ProcessBatch(ctx, paths)
	if err != nil {
		logger.Error("batch interrupted", "error", err)
	}

	categories := service.Registry().Len()
	fmt.Fprintf(stdout, "Run %s: %d document(s), %d succeeded, %d failed\n",
		batch.RunID, len(batch.Documents), batch.Succeeded, batch.Failed)
	for i, doc := range batch.Documents {
		fmt.Fprintf(stdout, "%d. %s\n", i+1, doc.Summary(categories))

		written, err := writer.WriteDocument(doc)
		if err != nil {
			logger.Error("failed to write outputs", "document", doc.Document, "error", err)
			continue
		}
		for _, path := range written {
			fmt.Fprintf(stdout, "   -> %s\n", path)
		}
	}

	if !batch.HasData() {
		fmt.Fprintln(stdout, "No data extracted")
		return 1
	}

	if cfg.Global && batch.Global.Table != nil {
		path, err := writer.WriteGlobal(batch.Global)
		if err != nil {
			logger.Error("failed to write consolidated file", "error", err)
		} else {
			fmt.Fprintf(stdout, "Consolidated: %s (%d rows)\n", path, batch.Global.Rows)
		}
	}
	return 0
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger *slog.Logger) {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		logger.Info("received signal, initiating graceful shutdown", "signal", sig.String())
		cancel()

		// Wait for server to shutdown
		if err := <-serverErrCh; err != nil {
			logger.Error("server shutdown with error", "error", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server, logger *slog.Logger) {
	// In stdio mode, the parent process controls our lifecycle
	// We should exit cleanly when stdin is closed or we get an error
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logging based on mode
	logger := setupLogging(cfg, os.Stderr)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}
	logger.Debug("starting", "config", cfg.String())

	service, err := newService(cfg, logger)
	if err != nil {
		logger.Error("failed to create extraction pipeline", "error", err)
		os.Exit(1)
	}

	// Set up context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.IsBatchMode() {
		code := runBatch(ctx, cfg, service, logger, os.Stdout)
		cancel()
		os.Exit(code)
	}

	// Create MCP server
	server, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	// Handle different modes
	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server, logger)
	} else {
		runStdioMode(ctx, server, logger)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Bordereau Extract\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
