package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chainchat/backend/internal/models"
	"github.com/chainchat/backend/internal/services"
	"github.com/chainchat/backend/internal/utils"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type CreateChatRequest struct {
	ID       string            `json:"id,omitempty"`
	Messages []json.RawMessage `json:"messages,omitempty"`
	Tagline  string            `json:"tagline"`
	Chain    *string           `json:"chain,omitempty"`
}

func (h *ChatHandler) Create(c *gin.Context) {
	const op = "ChatHandler.Create"
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if req.Chain != nil && !models.ValidChain(*req.Chain) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid chain", nil))
		return
	}
	if !objectMessages(c, op, req.Messages...) {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Messages == nil {
		req.Messages = []json.RawMessage{}
	}

	chat := h.svc.AddChat(c.Request.Context(), models.NewChat{
		ID:       req.ID,
		UserID:   userID,
		Messages: req.Messages,
		Tagline:  req.Tagline,
		Chain:    req.Chain,
	})
	if chat == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to create chat", nil))
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *ChatHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.FindChatsByUser(c.Request.Context(), userID))
}

func (h *ChatHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	chat := h.svc.GetChat(c.Request.Context(), c.Param("id"), userID)
	if chat == nil {
		notFound(c, "ChatHandler.Get", "chat")
		return
	}
	c.JSON(http.StatusOK, chat)
}

type UpdateTaglineRequest struct {
	Tagline string `json:"tagline"`
}

func (h *ChatHandler) UpdateTagline(c *gin.Context) {
	const op = "ChatHandler.UpdateTagline"
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateTaglineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	h.patched(c, op, h.svc.UpdateChatTagline(c.Request.Context(), c.Param("id"), userID, req.Tagline))
}

type UpdateChainRequest struct {
	Chain string `json:"chain" binding:"required"`
}

func (h *ChatHandler) UpdateChain(c *gin.Context) {
	const op = "ChatHandler.UpdateChain"
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if !models.ValidChain(req.Chain) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid chain", nil))
		return
	}
	h.patched(c, op, h.svc.UpdateChatChain(c.Request.Context(), c.Param("id"), userID, req.Chain))
}

type AddMessageRequest struct {
	Message json.RawMessage `json:"message" binding:"required"`
}

func (h *ChatHandler) AddMessage(c *gin.Context) {
	const op = "ChatHandler.AddMessage"
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if !objectMessages(c, op, req.Message) {
		return
	}
	h.patched(c, op, h.svc.AddMessageToChat(c.Request.Context(), c.Param("id"), userID, req.Message))
}

type ReplaceMessagesRequest struct {
	Messages []json.RawMessage `json:"messages"`
	Chain    *string           `json:"chain,omitempty"`
}

// ReplaceMessages overwrites the history. The chain is only changed when
// the body carries one.
func (h *ChatHandler) ReplaceMessages(c *gin.Context) {
	const op = "ChatHandler.ReplaceMessages"
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ReplaceMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if req.Chain != nil && !models.ValidChain(*req.Chain) {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid chain", nil))
		return
	}
	if !objectMessages(c, op, req.Messages...) {
		return
	}
	if req.Messages == nil {
		req.Messages = []json.RawMessage{}
	}
	h.patched(c, op, h.svc.UpdateChatMessages(c.Request.Context(), c.Param("id"), userID, req.Messages, req.Chain))
}

func (h *ChatHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.patched(c, "ChatHandler.Delete", h.svc.DeleteChat(c.Request.Context(), c.Param("id"), userID))
}

// objectMessages writes a 400 unless every message is a JSON object.
func objectMessages(c *gin.Context, op string, msgs ...json.RawMessage) bool {
	for _, m := range msgs {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(m, &obj); err != nil || obj == nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "message must be a JSON object", err))
			return false
		}
	}
	return true
}

func (h *ChatHandler) patched(c *gin.Context, op string, ok bool) {
	if !ok {
		notFound(c, op, "chat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
