package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/cfnslim/internal/engine"
	"github.com/dshills/cfnslim/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeSourceNotFound = -32001 // Source template does not exist
	ErrorCodeRunInProgress  = -32002 // Another run is already executing
)

// handleSplitTemplate handles the split_template tool invocation
func (s *Server) handleSplitTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, source, err := sourceArgs(request)
	if err != nil {
		return nil, err
	}

	outDir := getStringDefault(args, "out_dir", "")
	if outDir != "" && !filepath.IsAbs(outDir) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid out_dir", map[string]interface{}{
			"param":  "out_dir",
			"reason": ErrPathNotAbsolute.Error(),
		})
	}

	stats, err := s.engine.Run(ctx, engine.ModeSplit, engine.Options{
		Source: source,
		OutDir: outDir,
		DryRun: getBoolDefault(args, "dry_run", false),
	})
	if err != nil {
		return nil, runError(err)
	}

	return mcp.NewToolResultText(formatJSON(splitResponse(stats))), nil
}

// handleOptimizeTemplate handles the optimize_template tool invocation
func (s *Server) handleOptimizeTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, source, err := sourceArgs(request)
	if err != nil {
		return nil, err
	}

	optimized := getStringDefault(args, "optimized", "")
	if optimized != "" && !filepath.IsAbs(optimized) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid optimized path", map[string]interface{}{
			"param":  "optimized",
			"reason": ErrPathNotAbsolute.Error(),
		})
	}

	stats, err := s.engine.Run(ctx, engine.ModeOptimize, engine.Options{
		Source:    source,
		Optimized: optimized,
		DryRun:    getBoolDefault(args, "dry_run", false),
	})
	if err != nil {
		return nil, runError(err)
	}

	return mcp.NewToolResultText(formatJSON(optimizeResponse(stats))), nil
}

// handleTemplateMetrics handles the template_metrics tool invocation
func (s *Server) handleTemplateMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, source, err := sourceArgs(request)
	if err != nil {
		return nil, err
	}

	mode, err := engine.ParseMode(getStringDefault(args, "mode", "all"))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid mode", map[string]interface{}{
			"param":   "mode",
			"reason":  err.Error(),
			"allowed": []string{"split", "optimize", "all"},
		})
	}

	stats, err := s.engine.Run(ctx, mode, engine.Options{Source: source, DryRun: true})
	if err != nil {
		return nil, runError(err)
	}

	response := map[string]interface{}{
		"source": stats.Source,
		"mode":   stats.Mode.String(),
	}
	if stats.SplitMetrics != nil {
		response["split"] = stats.SplitMetrics
	}
	if stats.OptimizeMetrics != nil {
		response["optimize"] = stats.OptimizeMetrics
		response["feasible"] = stats.Optimized.Feasible
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

func splitResponse(stats *engine.Statistics) map[string]interface{} {
	documents := make([]map[string]interface{}, 0, len(stats.Split.Documents))
	for i, d := range stats.Split.Documents {
		entry := map[string]interface{}{
			"name":         d.Name,
			"filename":     d.Filename,
			"start":        d.Span.Start,
			"end":          d.Span.End,
			"content_hash": fmt.Sprintf("%x", d.ContentHash),
		}
		if i < len(stats.SplitPaths) {
			entry["path"] = stats.SplitPaths[i]
		}
		documents = append(documents, entry)
	}

	skipped := make([]map[string]interface{}, 0, len(stats.Split.Skipped))
	for _, sk := range stats.Split.Skipped {
		skipped = append(skipped, map[string]interface{}{
			"name":   sk.Name,
			"reason": sk.Err.Error(),
		})
	}

	malformed := make([]map[string]interface{}, 0, len(stats.Split.Malformed))
	for _, m := range stats.Split.Malformed {
		malformed = append(malformed, map[string]interface{}{
			"name":   m.Name,
			"reason": m.Err.Error(),
		})
	}

	return map[string]interface{}{
		"run_id":    stats.RunID,
		"dry_run":   stats.DryRun,
		"documents": documents,
		"skipped":   skipped,
		"malformed": malformed,
		"metrics":   stats.SplitMetrics,
	}
}

func optimizeResponse(stats *engine.Statistics) map[string]interface{} {
	opt := stats.Optimized
	response := map[string]interface{}{
		"run_id":  stats.RunID,
		"dry_run": stats.DryRun,
		"removed": map[string]interface{}{
			"comment_lines":   opt.CommentLinesDropped,
			"dividers":        opt.DividersDropped,
			"inline_comments": opt.InlineCommentsStripped,
			"blank_lines":     opt.BlankLinesCollapsed,
		},
		"feasible":       opt.Feasible,
		"line_threshold": opt.LineThreshold,
		"metrics":        stats.OptimizeMetrics,
	}
	if !stats.DryRun {
		response["path"] = stats.OptimizedPath
	}
	return response
}

// Helper functions

// sourceArgs extracts the arguments map and the validated source path
func sourceArgs(request mcp.CallToolRequest) (map[string]interface{}, string, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, "", newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, ok := args["source"].(string)
	if !ok || source == "" {
		return nil, "", newMCPError(ErrorCodeInvalidParams, "source parameter is required", map[string]interface{}{
			"param":  "source",
			"reason": "missing or empty",
		})
	}

	if err := validateSource(source); err != nil {
		code := ErrorCodeInvalidParams
		if errors.Is(err, ErrPathNotFound) {
			code = ErrorCodeSourceNotFound
		}
		return nil, "", newMCPError(code, "invalid source", map[string]interface{}{
			"param":  "source",
			"reason": err.Error(),
		})
	}

	return args, source, nil
}

// runError maps engine errors to MCP errors
func runError(err error) error {
	switch {
	case errors.Is(err, engine.ErrRunInProgress):
		return newMCPError(ErrorCodeRunInProgress, "run in progress", map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, types.ErrSourceNotFound):
		return newMCPError(ErrorCodeSourceNotFound, "source not found", map[string]interface{}{
			"error": err.Error(),
		})
	default:
		return newMCPError(ErrorCodeInternalError, "run failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateSource checks that a non-empty source is an absolute path to a
// readable file
func validateSource(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if info.IsDir() {
		return ErrIsDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrIsDirectory     = errors.New("path is a directory, not a template file")
)
