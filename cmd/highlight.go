package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file|->",
	Short: "Highlight glossary terms in an HTML file",
	Long: `Loads the glossary from the configured sources, wraps every term found
in the input HTML and writes the result to stdout. Use "-" to read from
stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().String("selector", "", "CSS selector of the regions to scan (overrides config)")
	highlightCmd.Flags().Bool("fragment", false, "treat the input as a fragment and scan all of it")
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	loader, err := newGlossaryLoader(cfg)
	if err != nil {
		return err
	}
	defer loader.Close()

	idx, res := loader.LoadIndex(cmd.Context())
	logger.Debug("glossary loaded", zap.String("source", res.Source), zap.Int("terms", idx.Len()))

	h := glossary.NewHighlighter(cfg.Marker)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	fragment, _ := cmd.Flags().GetBool("fragment")
	var stats glossary.Stats
	if fragment {
		src, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		var rewritten string
		rewritten, stats, err = h.HighlightFragment(string(src), idx)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, rewritten); err != nil {
			return err
		}
	} else {
		selector := cfg.Selector
		if cmd.Flags().Changed("selector") {
			selector, _ = cmd.Flags().GetString("selector")
		}
		stats, err = h.HighlightHTML(in, out, selector, idx)
		if err != nil {
			return err
		}
	}

	logger.Debug("highlighted",
		zap.Int("text_nodes", stats.TextNodes),
		zap.Int("candidates", stats.Candidates),
		zap.Int("markers", stats.Markers),
	)
	return nil
}
