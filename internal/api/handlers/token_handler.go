package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/services"
)

type TokenHandler struct {
	svc services.TokenService
}

func NewTokenHandler(svc services.TokenService) *TokenHandler {
	return &TokenHandler{svc: svc}
}

func (h *TokenHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.FindTokens(c.Request.Context()))
}

func (h *TokenHandler) Get(c *gin.Context) {
	t := h.svc.GetToken(c.Request.Context(), c.Param("id"))
	if t == nil {
		notFound(c, "TokenHandler.Get", "token")
		return
	}
	c.JSON(http.StatusOK, t)
}

// BySymbol resolves a symbol shared by several tokens to the verified one,
// then a community one, then the first match.
func (h *TokenHandler) BySymbol(c *gin.Context) {
	t := h.svc.GetTokenBySymbol(c.Request.Context(), c.Param("symbol"))
	if t == nil {
		notFound(c, "TokenHandler.BySymbol", "token")
		return
	}
	c.JSON(http.StatusOK, t)
}
