package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/cfnslim/internal/config"
	"github.com/dshills/cfnslim/internal/engine"
)

const (
	// ServerName is the MCP server name
	ServerName = "cfnslim-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	engine *engine.Engine
	logger *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		engine: eng,
		logger: logger,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until the client
// disconnects or ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(splitTemplateTool(), s.handleSplitTemplate)
	s.mcp.AddTool(optimizeTemplateTool(), s.handleOptimizeTemplate)
	s.mcp.AddTool(templateMetricsTool(), s.handleTemplateMetrics)
}
