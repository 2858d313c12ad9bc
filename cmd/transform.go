package cmd

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/openrag/docsearch-be/config"
	"github.com/openrag/docsearch-be/service"
	"github.com/spf13/cobra"
)

// transformCmd represents the transform command
var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Split crawled documents into header-scoped chunk files",
	Long: `Reads every JSON crawl file in the source directory, cleans and splits
each document on its markdown headers, and writes the resulting chunk
records to the chunked/ subdirectory under a chunked_ file prefix.`,
	Run: func(cmd *cobra.Command, args []string) {
		sourceDir, _ := cmd.Flags().GetString("source-dir")
		if sourceDir == "" {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}
			sourceDir = cfg.SourceDir
		}
		if sourceDir == "" {
			log.Fatal("No source directory given; set --source-dir or source_dir in the config")
		}

		logger := slog.Default()
		transformService := service.NewTransformService(logger)
		fileService := service.NewFileService(transformService, logger)

		fmt.Printf("Processing files in %s...\n", sourceDir)
		total, err := fileService.ProcessDirectory(sourceDir)
		if err != nil {
			log.Fatalf("Failed to process directory: %v", err)
		}
		fmt.Printf("Transformed %d document chunks successfully\n", total)
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringP("source-dir", "s", "", "Directory containing crawled JSON files")
}
