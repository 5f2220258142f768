// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with point tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harper/pointedit/internal/editor"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps MCP server with an editor session.
type Server struct {
	mcp     *mcp.Server
	session *editor.Session
	logger  *log.Logger
}

// NewServer creates MCP server with all capabilities.
func NewServer(session *editor.Session, logger *log.Logger) (*Server, error) {
	if session == nil {
		return nil, fmt.Errorf("editor session is required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "pointedit",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		session: session,
		logger:  logger.With("component", "mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving on stdio", "session", s.session.ID().String())
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
