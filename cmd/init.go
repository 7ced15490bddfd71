package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/filmguide/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize filmguide configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the guide's content, output and glossary source, and writes a .filmguide.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
