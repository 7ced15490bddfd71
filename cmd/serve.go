package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/filmguide/internal/config"
	"github.com/ziadkadry99/filmguide/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the guide and start the preview server",
	Long: `Builds the guide, serves it locally with a glossary API, and rebuilds
and reloads open pages whenever content, the film catalog or a local
glossary file changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("watch", true, "rebuild on content changes")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("drafts", false, "include pages marked draft")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port, _ := cmd.Flags().GetInt("port")
	open, _ := cmd.Flags().GetBool("open")
	drafts, _ := cmd.Flags().GetBool("drafts")
	watch := cfg.Server.Watch
	if cmd.Flags().Changed("watch") {
		watch, _ = cmd.Flags().GetBool("watch")
	}

	loader, err := newGlossaryLoader(cfg)
	if err != nil {
		return err
	}
	defer loader.Close()

	gen, err := newGenerator(cfg, loader, "", drafts, true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := gen.Build(ctx)
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}
	fmt.Printf("Site built: %d pages, %d glossary terms\n", res.Pages, res.Terms)

	return servePreview(ctx, cfg, gen, port, open, watch)
}

// servePreview runs the preview server for an already built site until
// ctx is cancelled.
func servePreview(ctx context.Context, cfg *config.Config, gen *site.Generator, port int, open, watch bool) error {
	if port == 0 {
		port = cfg.Server.Port
	}
	srv := site.NewServer(gen, site.ServerConfig{
		Port:        port,
		CORSOrigins: cfg.Server.CORSOrigins,
		Open:        open,
		Watch:       watch,
		WatchFiles:  localGlossaryFiles(cfg),
	}, logger)

	fmt.Printf("Serving at http://localhost:%d, press Ctrl+C to stop\n", port)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serving site: %w", err)
	}
	return nil
}
