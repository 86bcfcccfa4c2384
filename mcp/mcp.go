// Package mcp exposes controller operations as MCP tools over stdio so
// language model agents can drive the grow system.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mbocsi/growlink/controller"
)

const version = "1.0.0"

type Server struct {
	server     *server.MCPServer
	controller *controller.Controller
}

func NewServer(ctrl *controller.Controller) *Server {
	s := &Server{
		server:     server.NewMCPServer("growlink-controller", version),
		controller: ctrl,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run() error {
	slog.Info("Started stdio MCP server")
	defer func() {
		slog.Info("Shut down stdio MCP server")
	}()
	return server.ServeStdio(s.server)
}
