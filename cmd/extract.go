package cmd

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/openrag/docsearch-be/service"
	"github.com/spf13/cobra"
)

// extractLanguageCmd represents the extract-language command
var extractLanguageCmd = &cobra.Command{
	Use:   "extract-language",
	Short: "Copy chunks of one language into a separate stage directory",
	Long: `Filters every chunked_*.json file by the given language tag and writes
the matching records into the output directory under an added language
prefix, producing an ingestion subset for a language-specific index.`,
	Run: func(cmd *cobra.Command, args []string) {
		sourceDir, _ := cmd.Flags().GetString("source-dir")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		language, _ := cmd.Flags().GetString("language")

		if sourceDir == "" || outputDir == "" {
			log.Fatal("Both --source-dir and --output-dir are required")
		}

		logger := slog.Default()
		fileService := service.NewFileService(service.NewTransformService(logger), logger)

		fmt.Printf("Extracting %q chunks from %s to %s...\n", language, sourceDir, outputDir)
		total, matched, files, err := fileService.ExtractLanguage(sourceDir, outputDir, language)
		if err != nil {
			log.Fatalf("Failed to extract chunks: %v", err)
		}

		fmt.Println("\n===== EXTRACTION SUMMARY =====")
		fmt.Printf("Total chunks processed: %d\n", total)
		if total > 0 {
			fmt.Printf("Matching chunks extracted: %d (%.2f%% of total)\n",
				matched, float64(matched)/float64(total)*100)
		} else {
			fmt.Printf("Matching chunks extracted: %d\n", matched)
		}
		fmt.Printf("Files created: %d\n", files)
		fmt.Printf("Chunks saved to: %s\n", outputDir)
	},
}

func init() {
	rootCmd.AddCommand(extractLanguageCmd)
	extractLanguageCmd.Flags().StringP("source-dir", "s", "", "Directory containing chunked_*.json files")
	extractLanguageCmd.Flags().StringP("output-dir", "o", "", "Directory to write the filtered files to")
	extractLanguageCmd.Flags().StringP("language", "l", "en", "Language tag to keep")
}
