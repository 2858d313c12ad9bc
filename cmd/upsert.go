package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/openrag/docsearch-be/config"
	"github.com/openrag/docsearch-be/database"
	"github.com/openrag/docsearch-be/service"
	"github.com/openrag/docsearch-be/utils"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// upsertCmd represents the upsert command
var upsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Load chunk files into the vector index in resilient batches",
	Long: `Reads chunk record files from a stage directory and upserts them into
the named index and namespace. Whole batches are retried with exponential
backoff; with --per-record each record is sent on its own so one bad
record never sinks its batch. A failed unit is logged and skipped, and a
final success summary is printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		sourceDir, _ := cmd.Flags().GetString("source-dir")
		prefix, _ := cmd.Flags().GetString("prefix")
		indexName, _ := cmd.Flags().GetString("index")
		namespace, _ := cmd.Flags().GetString("namespace")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		perRecord, _ := cmd.Flags().GetBool("per-record")
		language, _ := cmd.Flags().GetString("language")
		recreate, _ := cmd.Flags().GetBool("recreate")
		maxRetries, _ := cmd.Flags().GetInt("max-retries")

		if indexName == "" {
			indexName = cfg.Search.DefaultIndex
		}
		if namespace == "" {
			namespace = cfg.Search.DefaultNamespace
		}

		logger := slog.Default()
		ctx := context.Background()

		store, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to vector store: %v", err)
		}

		if recreate {
			if err := recreateIndex(ctx, store, indexName); err != nil {
				log.Fatalf("Failed to recreate index %q: %v", indexName, err)
			}
		}

		fileService := service.NewFileService(service.NewTransformService(logger), logger)
		fmt.Printf("Loading chunk records from %s...\n", sourceDir)
		records, err := fileService.LoadChunkRecords(sourceDir, prefix)
		if err != nil {
			log.Fatalf("Failed to load chunk records: %v", err)
		}
		fmt.Printf("Loaded %d records\n", len(records))

		if language != "" {
			matching, dropped := service.FilterByLanguage(records, language)
			fmt.Printf("Keeping %d %q records, dropping %d others\n", len(matching), language, dropped)
			records = matching
		}

		retryCfg := utils.DefaultRetryConfig()
		retryCfg.MaxRetries = maxRetries
		retryCfg.InitialDelay = 2 * time.Second

		upsertService := service.NewUpsertService(store.Index(indexName), retryCfg, logger)

		bar := progressbar.Default(int64(len(records)), "upserting")
		outcome := upsertService.UpsertAll(ctx, namespace, records, batchSize, perRecord, func(sent int) {
			bar.Add(sent)
		})

		fmt.Printf("\nCompleted upserting %d/%d records to namespace %q\n",
			outcome.Succeeded, len(records), namespace)
		if len(outcome.Failed) > 0 {
			fmt.Printf("%d records failed; first failure: %s (%s)\n",
				len(outcome.Failed), outcome.Failed[0].ID, outcome.Failed[0].Err)
		}
	},
}

// recreateIndex drops the index if present, creates it with the
// configured integrated embedding and polls until it is ready.
func recreateIndex(ctx context.Context, store *database.WeaviateStore, name string) error {
	exists, err := store.HasIndex(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		fmt.Printf("Deleting existing index %q...\n", name)
		if err := store.DeleteIndex(ctx, name); err != nil {
			return err
		}
	}

	fmt.Printf("Creating new index %q with integrated embedding...\n", name)
	if err := store.CreateIndexForModel(ctx, name, store.EmbeddingDefaults()); err != nil {
		return err
	}

	fmt.Println("Waiting for index to be ready...")
	if err := database.WaitUntilReady(ctx, store, name, time.Second); err != nil {
		return err
	}
	fmt.Println("Index is ready!")
	return nil
}

func init() {
	rootCmd.AddCommand(upsertCmd)
	upsertCmd.Flags().StringP("source-dir", "s", "", "Directory containing chunk record files")
	upsertCmd.Flags().String("prefix", service.ChunkedPrefix, "File name prefix of the stage to load")
	upsertCmd.Flags().StringP("index", "i", "", "Index to upsert into")
	upsertCmd.Flags().StringP("namespace", "n", "", "Namespace to upsert into")
	upsertCmd.Flags().IntP("batch-size", "b", 5, "Records per upsert batch")
	upsertCmd.Flags().Bool("per-record", false, "Send one record at a time to isolate failures")
	upsertCmd.Flags().StringP("language", "l", "", "Only upsert records with this language tag")
	upsertCmd.Flags().BoolP("recreate", "r", false, "Delete and recreate the index first")
	upsertCmd.Flags().Int("max-retries", 5, "Retries per batch before skipping it")
}
