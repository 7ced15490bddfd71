package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/filmguide/internal/config"
	"github.com/ziadkadry99/filmguide/internal/db"
	"github.com/ziadkadry99/filmguide/internal/glossary"
	"github.com/ziadkadry99/filmguide/internal/sources"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Inspect and manage the film glossary",
}

var glossaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List glossary terms from the configured sources",
	RunE:  runGlossaryList,
}

var glossaryLookupCmd = &cobra.Command{
	Use:   "lookup <term>",
	Short: "Show the definition of a term",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGlossaryLookup,
}

var glossaryImportCmd = &cobra.Command{
	Use:   "import [file|url]",
	Short: "Replace the local glossary database with entries from a file or the remote table",
	Long: `Imports glossary entries into the local SQLite store. The input format
follows the extension (.csv, .xlsx, .yml/.yaml); a CSV may also be an
http(s) URL. Without an argument the configured remote table is imported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGlossaryImport,
}

var glossaryExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the loaded glossary to a .csv, .xlsx or .yml file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGlossaryExport,
}

func init() {
	glossaryListCmd.Flags().String("prefix", "", "only list terms starting with this prefix")
	glossaryListCmd.Flags().Bool("json", false, "output as JSON")
	glossaryImportCmd.Flags().String("sheet", "", "worksheet to read from an .xlsx file (defaults to the first)")

	glossaryCmd.AddCommand(glossaryListCmd, glossaryLookupCmd, glossaryImportCmd, glossaryExportCmd)
	rootCmd.AddCommand(glossaryCmd)
}

// loadGlossary loads the index through the configured fallback chain.
func loadGlossary(cmd *cobra.Command, cfg *config.Config) (*glossary.Index, sources.Result, error) {
	loader, err := newGlossaryLoader(cfg)
	if err != nil {
		return nil, sources.Result{}, err
	}
	defer loader.Close()
	idx, res := loader.LoadIndex(cmd.Context())
	return idx, res, nil
}

func runGlossaryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	idx, res, err := loadGlossary(cmd, cfg)
	if err != nil {
		return err
	}

	prefix, _ := cmd.Flags().GetString("prefix")
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var entries []glossary.Entry
	for _, e := range idx.Alphabetical() {
		if strings.HasPrefix(e.Key(), prefix) {
			entries = append(entries, e)
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No glossary terms found.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Term, truncate(e.Definition, 80))
	}
	tw.Flush()
	fmt.Printf("\n%d terms from %s\n", len(entries), res.Source)
	return nil
}

func runGlossaryLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	idx, _, err := loadGlossary(cmd, cfg)
	if err != nil {
		return err
	}

	term := strings.Join(args, " ")
	e, ok := idx.Lookup(term)
	if !ok {
		return fmt.Errorf("%q is not in the glossary", term)
	}
	fmt.Printf("%s\n  %s\n", e.Term, e.Definition)
	if e.ReferenceLink != "" {
		fmt.Printf("  %s\n", e.ReferenceLink)
	}
	return nil
}

func runGlossaryImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var src sources.Source
	if len(args) == 0 {
		if cfg.Glossary.Remote.URL == "" {
			return fmt.Errorf("no input given and glossary.remote.url is not set")
		}
		src = sources.NewRemoteSource(sources.RemoteConfig{
			URL:    cfg.Glossary.Remote.URL,
			Table:  cfg.Glossary.Remote.Table,
			APIKey: cfg.Glossary.Remote.APIKey(),
		})
	} else {
		sheet, _ := cmd.Flags().GetString("sheet")
		src, err = fileSource(args[0], sheet)
		if err != nil {
			return err
		}
	}

	res, err := src.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading %s: %w", src.Name(), err)
	}

	database, err := db.Open(cfg.Glossary.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	store := sources.NewStore(database)
	n, err := store.ReplaceAll(cmd.Context(), res.Entries, src.Name())
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d terms from %s into %s", n, src.Name(), cfg.Glossary.Database)
	if res.Skipped > 0 {
		fmt.Printf(" (%d rows skipped)", res.Skipped)
	}
	fmt.Println()
	return nil
}

// fileSource picks a Source for location by its extension.
func fileSource(location, sheet string) (sources.Source, error) {
	if isRemote(location) {
		return sources.NewCSVSource(location), nil
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".csv":
		return sources.NewCSVSource(location), nil
	case ".xlsx":
		return sources.NewXLSXSource(location, sheet), nil
	case ".yml", ".yaml":
		return sources.NewYAMLSource(location), nil
	default:
		return nil, fmt.Errorf("unsupported glossary format %q: use .csv, .xlsx or .yml", filepath.Ext(location))
	}
}

func runGlossaryExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	idx, res, err := loadGlossary(cmd, cfg)
	if err != nil {
		return err
	}
	if idx.Len() == 0 {
		return fmt.Errorf("no glossary entries could be loaded")
	}

	path := args[0]
	entries := idx.Alphabetical()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := sources.WriteCSV(f, entries); err != nil {
			f.Close()
			return fmt.Errorf("writing csv: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	case ".xlsx":
		if err := sources.WriteXLSX(path, entries); err != nil {
			return fmt.Errorf("writing xlsx: %w", err)
		}
	case ".yml", ".yaml":
		if err := sources.WriteYAML(path, entries); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format %q: use .csv, .xlsx or .yml", filepath.Ext(path))
	}

	fmt.Printf("Exported %d terms from %s to %s\n", len(entries), res.Source, path)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
