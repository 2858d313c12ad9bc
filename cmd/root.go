package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docsearch-be",
	Short: "Ingest crawled documents into a vector index and serve search over it",
	Long: `docsearch-be runs the document-to-chunk pipeline and the search API.

The pipeline transforms crawled pages into header-scoped chunk files,
optionally filters them by language, and loads them into the vector index
in resilient batches. The server exposes the index over a small JSON API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}
