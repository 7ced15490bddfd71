package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/filmguide/internal/glossary"
	mcpserver "github.com/ziadkadry99/filmguide/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing glossary lookup and highlighting tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		idx, res, err := loadGlossary(cmd, cfg)
		if err != nil {
			return err
		}
		if idx.Len() == 0 {
			fmt.Fprintf(os.Stderr, "Warning: no glossary source could be loaded; lookups will find nothing.\n")
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "filmguide MCP server started on stdio (terms=%d, source=%s)\n", idx.Len(), res.Source)

		srv := mcpserver.NewServer(idx, glossary.NewHighlighter(cfg.Marker), cfg.Selector)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
