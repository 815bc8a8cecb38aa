package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/services"
	"github.com/chainchat/backend/internal/utils"
	"github.com/chainchat/backend/internal/workers"
)

// EnqueueFunc hands an ingestion job to the worker queue and returns its
// message id.
type EnqueueFunc func(ctx context.Context, job workers.IngestJob) (string, error)

type KnowledgeHandler struct {
	svc     services.KnowledgeService
	enqueue EnqueueFunc
}

func NewKnowledgeHandler(svc services.KnowledgeService, enqueue EnqueueFunc) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc, enqueue: enqueue}
}

type SearchKnowledgeRequest struct {
	Query string `json:"query" binding:"required"`
}

func (h *KnowledgeHandler) Search(c *gin.Context) {
	var req SearchKnowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "KnowledgeHandler.Search", "invalid request body", err))
		return
	}
	c.JSON(http.StatusOK, h.svc.SearchKnowledge(c.Request.Context(), req.Query))
}

type IngestRequest struct {
	URL     string `json:"url" binding:"required"`
	BaseURL string `json:"baseUrl"`
	Name    string `json:"name"`
}

func (h *KnowledgeHandler) Ingest(c *gin.Context) {
	const op = "KnowledgeHandler.Ingest"

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "url must be absolute http(s)", err))
		return
	}
	if h.enqueue == nil {
		writeError(c, utils.E(utils.CodeNotConfigured, op, "ingestion queue not configured", nil))
		return
	}

	id, err := h.enqueue(c.Request.Context(), workers.IngestJob{
		URL:     u.String(),
		BaseURL: strings.TrimSuffix(strings.TrimSpace(req.BaseURL), "/"),
		Name:    strings.TrimSpace(req.Name),
	})
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to enqueue", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"jobId": id, "status": "queued"})
}

// List filters by ?baseUrl= or ?url=; one of them is required.
func (h *KnowledgeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	switch {
	case c.Query("baseUrl") != "":
		c.JSON(http.StatusOK, h.svc.FindKnowledgeByBaseURL(ctx, c.Query("baseUrl")))
	case c.Query("url") != "":
		c.JSON(http.StatusOK, h.svc.FindKnowledgeByURL(ctx, c.Query("url")))
	default:
		writeError(c, utils.E(utils.CodeInvalidArgument, "KnowledgeHandler.List", "baseUrl or url is required", nil))
	}
}
