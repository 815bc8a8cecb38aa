package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/services"
	"github.com/chainchat/backend/internal/utils"
)

type SavedTokenHandler struct {
	svc services.SavedTokenService
}

func NewSavedTokenHandler(svc services.SavedTokenService) *SavedTokenHandler {
	return &SavedTokenHandler{svc: svc}
}

type SaveTokenRequest struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" binding:"required"`
	Symbol  string `json:"symbol" binding:"required"`
	LogoURI string `json:"logoURI"`
	Chain   string `json:"chain" binding:"required"`
}

func (h *SavedTokenHandler) Create(c *gin.Context) {
	const op = "SavedTokenHandler.Create"
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SaveTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if !models.ValidChain(req.Chain) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid chain", nil))
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	st := h.svc.AddSavedToken(c.Request.Context(), models.NewSavedToken{
		ID:      req.ID,
		UserID:  userID,
		Name:    req.Name,
		Symbol:  req.Symbol,
		LogoURI: req.LogoURI,
		Chain:   req.Chain,
	})
	if st == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to save token", nil))
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *SavedTokenHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.FindSavedTokensByUserID(c.Request.Context(), userID))
}

func (h *SavedTokenHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	st := h.svc.GetSavedToken(c.Request.Context(), c.Param("id"), userID)
	if st == nil {
		notFound(c, "SavedTokenHandler.Get", "saved token")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SavedTokenHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if !h.svc.DeleteSavedToken(c.Request.Context(), c.Param("id"), userID) {
		notFound(c, "SavedTokenHandler.Delete", "saved token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
