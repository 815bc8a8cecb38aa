package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/search"
	"github.com/chainchat/backend/internal/services"
	"github.com/chainchat/backend/internal/utils"
)

// TokenSearch is satisfied by *search.TokenIndex.
type TokenSearch interface {
	Configured() bool
	Search(ctx context.Context, query string, limit int) ([]models.Token, error)
	Reindex(ctx context.Context, tokens []models.Token) (*meilisearch.TaskInfo, error)
}

type SearchHandler struct {
	index  TokenSearch
	tokens services.TokenService
}

func NewSearchHandler(index TokenSearch, tokens services.TokenService) *SearchHandler {
	return &SearchHandler{index: index, tokens: tokens}
}

// ReindexTokens pushes every stored token to the search index. Routes guard
// it with middleware.RequireAuthCode.
func (h *SearchHandler) ReindexTokens(c *gin.Context) {
	const op = "SearchHandler.ReindexTokens"

	if h.index == nil || !h.index.Configured() {
		writeError(c, utils.E(utils.CodeNotConfigured, op, "meilisearch not configured", nil))
		return
	}

	tokens := h.tokens.FindTokens(c.Request.Context())
	if len(tokens) == 0 {
		c.JSON(http.StatusOK, gin.H{"enqueuedTask": nil, "count": 0})
		return
	}

	task, err := h.index.Reindex(c.Request.Context(), tokens)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "reindex failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"enqueuedTask": task, "count": len(tokens)})
}

func (h *SearchHandler) SearchTokens(c *gin.Context) {
	const op = "SearchHandler.SearchTokens"

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, []models.Token{})
		return
	}
	limit, ok := queryInt(c, op, "limit", search.DefaultLimit)
	if !ok {
		return
	}
	if h.index == nil {
		c.JSON(http.StatusOK, []models.Token{})
		return
	}

	out, err := h.index.Search(c.Request.Context(), q, limit)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "search failed", err))
		return
	}
	c.JSON(http.StatusOK, out)
}
