package cmd

import (
	"context"
	"log"

	"github.com/openrag/docsearch-be/config"
	"github.com/openrag/docsearch-be/database"
	"github.com/spf13/cobra"
)

// recreateIndexCmd represents the recreate-index command
var recreateIndexCmd = &cobra.Command{
	Use:   "recreate-index",
	Short: "Delete and recreate an index with integrated embedding",
	Long: `Drops the named index if it exists, creates it fresh with the
configured embedding model and waits until it is ready to accept records.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		indexName, _ := cmd.Flags().GetString("index")
		if indexName == "" {
			indexName = cfg.Search.DefaultIndex
		}

		store, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to vector store: %v", err)
		}

		if err := recreateIndex(context.Background(), store, indexName); err != nil {
			log.Fatalf("Failed to recreate index %q: %v", indexName, err)
		}
	},
}

func init() {
	rootCmd.AddCommand(recreateIndexCmd)
	recreateIndexCmd.Flags().StringP("index", "i", "", "Index to recreate")
}
