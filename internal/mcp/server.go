package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/esClymax/Appli-Extraction/internal/config"
	"github.com/esClymax/Appli-Extraction/internal/descriptions"
	"github.com/esClymax/Appli-Extraction/internal/output"
	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *pipeline.Service
	search    *pdf.Search
	validator *pdf.Validator
	writer    *output.Writer
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *pipeline.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("pipeline service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer, err := output.NewWriter(cfg.OutputDirectory, cfg.Format, logger)
	if err != nil {
		return nil, err
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		search:    pdf.NewSearch(cfg.MaxFileSize),
		validator: pdf.NewValidator(cfg.MaxFileSize),
		writer:    writer,
		mcpServer: mcpServer,
		logger:    logger,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathParam := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path of the PDF file, absolute or relative to the PDF directory"),
	)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolCategories,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolCategories)),
	), s.handleCategories)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolValidate,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolValidate)),
		pathParam,
	), s.handleValidate)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolLocate,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolLocate)),
		pathParam,
	), s.handleLocate)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolCoverage,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolCoverage)),
		pathParam,
	), s.handleCoverage)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolExtract,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtract)),
		pathParam,
		mcp.WithBoolean("write",
			mcp.Description("Write the CSV/XLSX outputs to the output directory"),
		),
	), s.handleExtract)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ToolBatch,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolBatch)),
		mcp.WithString("directory",
			mcp.Description("Directory to process (uses the PDF directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Only process files whose name contains this text"),
		),
		mcp.WithBoolean("global",
			mcp.Description("Also write the consolidated CSV of the batch"),
		),
	), s.handleBatch)
}

// resolvePath anchors relative paths at the PDF directory and rejects
// anything outside it.
func (s *Server) resolvePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.config.InputDirectory, path)
	}

	inside, err := pdf.WithinDirectory(path, s.config.InputDirectory)
	if err != nil {
		return "", err
	}
	if !inside {
		return "", fmt.Errorf("access denied: %s is outside %s", path, s.config.InputDirectory)
	}
	return path, nil
}

func (s *Server) requirePath(request mcp.CallToolRequest) (string, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return "", err
	}
	return s.resolvePath(path)
}

func boolArgument(request mcp.CallToolRequest, name string) bool {
	v, ok := request.GetArguments()[name].(bool)
	return ok && v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Handler functions
func (s *Server) handleCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.service.Registry().All())
}

func (s *Server) handleValidate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.validator.ValidateFile(pdf.ValidateRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages, PDF %s)",
			result.Path, result.Pages, result.Version)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleLocate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Locate(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"document":    result.Document,
		"total_pages": result.TotalPages,
		"page_ranges": result.PageRanges,
		"warnings":    result.Warnings,
	})
}

func (s *Server) handleCoverage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Locate(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("%s: %s\n", result.Document, result.Coverage.Summary())
	for _, cat := range result.PageRanges.Found(s.service.Registry()) {
		text += fmt.Sprintf("  %s: %s\n", cat.DisplayLabel(), strings.Join(result.PageRanges[cat.Keyword], ", "))
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.requirePath(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ProcessDocument(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var written []string
	if boolArgument(request, "write") {
		written, err = s.writer.WriteDocument(result)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return jsonResult(struct {
		*pipeline.DocumentResult
		Written []string `json:"written,omitempty"`
	}{result, written})
}

func (s *Server) handleBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.InputDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		resolved, err := s.resolvePath(dir)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		directory = resolved
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	found, err := s.search.SearchDirectory(pdf.SearchRequest{Directory: directory, Query: query})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if found.TotalCount == 0 {
		responseText := fmt.Sprintf("No PDF files found in directory: %s", found.Directory)
		if found.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", found.SearchQuery)
		}
		return mcp.NewToolResultText(responseText), nil
	}

	paths := make([]string, len(found.Files))
	for i, f := range found.Files {
		paths[i] = f.Path
	}

	batch, err := s.service.ProcessBatch(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := s.formatBatchResult(batch)
	for _, doc := range batch.Documents {
		written, err := s.writer.WriteDocument(doc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, w := range written {
			text += fmt.Sprintf("Written: %s\n", w)
		}
	}
	if boolArgument(request, "global") && batch.HasData() {
		path, err := s.writer.WriteGlobal(batch.Global)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		text += fmt.Sprintf("Written: %s\n", path)
	}

	return mcp.NewToolResultText(text), nil
}

// Formatting methods
func (s *Server) formatBatchResult(batch *pipeline.BatchResult) string {
	text := fmt.Sprintf("Batch %s: %d document(s), %d succeeded, %d failed\n",
		batch.RunID, len(batch.Documents), batch.Succeeded, batch.Failed)
	for i, doc := range batch.Documents {
		text += fmt.Sprintf("%d. %s\n", i+1, doc.Summary(s.service.Registry().Len()))
	}
	text += fmt.Sprintf("Consolidated rows: %d\n", batch.Global.Rows)
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves MCP over stdin/stdout until ctx is done
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode", "dir", s.config.InputDirectory)

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE on the configured address until ctx
// is done
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server in SSE mode", "addr", addr, "dir", s.config.InputDirectory)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		return nil
	}
}
