package mcp

import "github.com/mark3labs/mcp-go/mcp"

// lookupTermTool defines the lookup_term MCP tool.
var lookupTermTool = mcp.NewTool("lookup_term",
	mcp.WithDescription("Look up a film glossary term. Matching ignores case and simple plurals."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("The term to look up, e.g. \"film noir\""),
	),
)

// listTermsTool defines the list_terms MCP tool.
var listTermsTool = mcp.NewTool("list_terms",
	mcp.WithDescription("List glossary terms alphabetically, optionally filtered by prefix."),
	mcp.WithString("prefix",
		mcp.Description("Only list terms starting with this prefix (case-insensitive)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of terms to return (default 100)"),
	),
)

// highlightHTMLTool defines the highlight_html MCP tool.
var highlightHTMLTool = mcp.NewTool("highlight_html",
	mcp.WithDescription("Wrap glossary terms found in HTML with tooltip markers and return the rewritten HTML."),
	mcp.WithString("html",
		mcp.Required(),
		mcp.Description("An HTML document or fragment"),
	),
	mcp.WithString("selector",
		mcp.Description("CSS selector of the regions to scan in a full document"),
	),
	mcp.WithBoolean("fragment",
		mcp.Description("Treat the input as a fragment rather than a full document (default true)"),
	),
)
