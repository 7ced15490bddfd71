// Package mcp exposes the glossary to AI agents over the Model Context
// Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing glossary lookup and highlighting tools.
type Server struct {
	index       *glossary.Index
	highlighter *glossary.Highlighter
	selector    string
	mcp         *server.MCPServer
}

// NewServer creates an MCP server over idx. Highlighting uses h and, for
// full documents, selector unless a call overrides it.
func NewServer(idx *glossary.Index, h *glossary.Highlighter, selector string) *Server {
	if idx == nil {
		idx = glossary.BuildIndex(nil)
	}
	if h == nil {
		h = glossary.NewHighlighter(glossary.MarkerConfig{})
	}
	s := &Server{
		index:       idx,
		highlighter: h,
		selector:    selector,
	}

	s.mcp = server.NewMCPServer(
		"filmguide",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(lookupTermTool, s.handleLookupTerm)
	s.mcp.AddTool(listTermsTool, s.handleListTerms)
	s.mcp.AddTool(highlightHTMLTool, s.handleHighlightHTML)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
