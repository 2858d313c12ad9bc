package cmd

import (
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/openrag/docsearch-be/config"
	"github.com/openrag/docsearch-be/database"
	"github.com/openrag/docsearch-be/handler"
	"github.com/spf13/cobra"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the search API server",
	Long:  `Starts a server exposing the vector index over GET /api/indexes and POST /api/search`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to vector store: %v", err)
		}
		registry := database.NewRegistry(store, cfg.Indexes)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		searchHandler := handler.NewSearchHandler(registry, cfg.Search, slog.Default())

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		api := router.Group("/api")
		api.GET("/indexes", searchHandler.HandleListIndexes)
		api.POST("/search", searchHandler.HandleSearch)

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
