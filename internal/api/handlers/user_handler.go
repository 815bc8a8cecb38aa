package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/services"
	"github.com/chainchat/backend/internal/storage"
	"github.com/chainchat/backend/internal/utils"
)

const privyDIDPrefix = "did:privy:"

type UserHandler struct {
	svc    services.UserService
	images storage.ImageURLs
}

func NewUserHandler(svc services.UserService, images storage.ImageURLs) *UserHandler {
	return &UserHandler{svc: svc, images: images}
}

type MeResponse struct {
	models.User
	PfpURL string `json:"pfpUrl"`
}

// Me returns the caller, creating the user on first sign-in with the DID
// suffix as username. The pfp url is cache-busted unless ?fresh=0.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	u := h.svc.EnsureUser(c.Request.Context(), userID, strings.TrimPrefix(userID, privyDIDPrefix))
	if u == nil {
		writeError(c, utils.E(utils.CodeUnavailable, "UserHandler.Me", "user store unavailable", nil))
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:   *u,
		PfpURL: h.images.ProfileImageURL(userID, c.Query("fresh") != "0"),
	})
}

type UpdateUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *UserHandler) UpdateUsername(c *gin.Context) {
	const op = "UserHandler.UpdateUsername"
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "username is required", nil))
		return
	}

	if !h.svc.UpdateUsername(c.Request.Context(), userID, username) {
		notFound(c, op, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
