package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

const defaultListLimit = 100

// handleLookupTerm returns the definition of a single term.
func (s *Server) handleLookupTerm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := request.RequireString("term")
	if err != nil || strings.TrimSpace(term) == "" {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}

	e, ok := s.index.Lookup(term)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Term %q is not in the glossary.", term)), nil
	}
	return mcp.NewToolResultText(formatEntry(e)), nil
}

// handleListTerms lists terms alphabetically.
func (s *Server) handleListTerms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefix := strings.ToLower(strings.TrimSpace(request.GetString("prefix", "")))
	limit := request.GetInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	var matched []glossary.Entry
	for _, e := range s.index.Alphabetical() {
		if strings.HasPrefix(e.Key(), prefix) {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		if prefix != "" {
			return mcp.NewToolResultText(fmt.Sprintf("No terms start with %q.", prefix)), nil
		}
		return mcp.NewToolResultText("The glossary is empty. Check the configured glossary sources."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d term(s)", len(matched))
	if len(matched) > limit {
		fmt.Fprintf(&sb, ", showing the first %d", limit)
		matched = matched[:limit]
	}
	sb.WriteString(":\n")
	for _, e := range matched {
		fmt.Fprintf(&sb, "- %s: %s\n", e.Term, e.Definition)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleHighlightHTML runs the highlight pass over the given HTML.
func (s *Server) handleHighlightHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("html")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: html"), nil
	}

	if request.GetBool("fragment", true) {
		out, _, err := s.highlighter.HighlightFragment(src, s.index)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("highlight failed: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	}

	selector := request.GetString("selector", s.selector)
	var sb strings.Builder
	if _, err := s.highlighter.HighlightHTML(strings.NewReader(src), &sb, selector, s.index); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("highlight failed: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatEntry renders an entry for agent consumption.
func formatEntry(e glossary.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Term: %s\n", e.Term)
	fmt.Fprintf(&sb, "Definition: %s\n", e.Definition)
	if e.ReferenceLink != "" {
		fmt.Fprintf(&sb, "Wikipedia: %s\n", e.ReferenceLink)
	}
	return sb.String()
}
