package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static guide with glossary tooltips",
	Long: `Renders every content page and the film catalog into the output
directory, wraps glossary terms in the main content, and writes the
glossary page, the search index and the tooltip script.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory (defaults to output_dir)")
	buildCmd.Flags().Bool("drafts", false, "include pages marked draft")
	buildCmd.Flags().Bool("serve", false, "start the preview server after building")
	buildCmd.Flags().Int("port", 0, "port for the preview server (overrides config)")
	buildCmd.Flags().Bool("open", false, "open browser automatically when serving")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	drafts, _ := cmd.Flags().GetBool("drafts")
	serve, _ := cmd.Flags().GetBool("serve")

	loader, err := newGlossaryLoader(cfg)
	if err != nil {
		return err
	}
	defer loader.Close()

	gen, err := newGenerator(cfg, loader, outputDir, drafts, serve)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := gen.Build(ctx)
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}

	source := res.GlossarySource
	if source == "" {
		source = "none"
	}
	fmt.Printf("Site built: %s (%d pages, %d films, %d glossary terms from %s, %d markers) in %s\n",
		gen.Options().OutputDir, res.Pages, res.Films, res.Terms, source, res.Stats.Markers, res.Duration.Round(time.Millisecond))

	if !serve {
		return nil
	}
	port, _ := cmd.Flags().GetInt("port")
	open, _ := cmd.Flags().GetBool("open")
	return servePreview(ctx, cfg, gen, port, open, cfg.Server.Watch)
}
