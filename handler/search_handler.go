package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openrag/docsearch-be/config"
	"github.com/openrag/docsearch-be/database"
	"github.com/openrag/docsearch-be/types"
)

type SearchHandler struct {
	registry *database.Registry
	defaults config.SearchConfig
	logger   *slog.Logger
}

func NewSearchHandler(registry *database.Registry, defaults config.SearchConfig, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{
		registry: registry,
		defaults: defaults,
		logger:   logger,
	}
}

// HandleListIndexes returns the served indexes and their namespaces.
func (h *SearchHandler) HandleListIndexes(c *gin.Context) {
	c.JSON(http.StatusOK, types.IndexesResponse{
		Indexes: h.registry.Indexes(),
	})
}

// HandleSearch forwards the query to the selected index and reshapes the
// hits into the API response. Defaults fill in any omitted field except
// the query itself.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Query is required"})
		return
	}
	if req.TopK == 0 {
		req.TopK = h.defaults.DefaultTopK
	}
	if req.IndexName == "" {
		req.IndexName = h.defaults.DefaultIndex
	}
	if req.Namespace == "" {
		req.Namespace = h.defaults.DefaultNamespace
	}

	handle, err := h.registry.Handle(req.IndexName)
	if err != nil {
		if errors.Is(err, database.ErrUnknownIndex) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid index: " + req.IndexName})
			return
		}
		h.logger.Error("failed to get index handle", "index", req.IndexName, "error", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.Info("searching",
		"index", req.IndexName,
		"namespace", req.Namespace,
		"top_k", req.TopK,
		"rerank_model", req.RerankModel,
	)

	result, err := handle.SearchRecords(c.Request.Context(), req.Namespace, database.SearchQuery{
		Text:        req.Query,
		TopK:        req.TopK,
		RerankModel: req.RerankModel,
	})
	if err != nil {
		h.logger.Error("search failed", "index", req.IndexName, "error", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.Info("search returned", "hits", len(result.Result.Hits))
	c.JSON(http.StatusOK, result)
}
