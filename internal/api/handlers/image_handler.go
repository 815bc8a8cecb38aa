package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/storage"
	"github.com/chainchat/backend/internal/utils"
)

// ImageHandler serves public image uploads under images/.
type ImageHandler struct {
	store storage.ObjectStore
}

func NewImageHandler(store storage.ObjectStore) *ImageHandler {
	return &ImageHandler{store: store}
}

// Upload stores the multipart "file" at images/<filename>, replacing any
// existing object. filename defaults to the uploaded file's name.
func (h *ImageHandler) Upload(c *gin.Context) {
	const op = "ImageHandler.Upload"

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing file", err))
		return
	}
	if h.store == nil {
		writeError(c, utils.E(utils.CodeNotConfigured, op, "upload failed", nil))
		return
	}

	name := c.PostForm("filename")
	if name == "" {
		name = fh.Filename
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing file", err))
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.store.Upload(c.Request.Context(), storage.ImageKey(name), contentType, f, fh.Size)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "upload failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *ImageHandler) Delete(c *gin.Context) {
	const op = "ImageHandler.Delete"

	name := c.Query("fileName")
	if name == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing fileName", nil))
		return
	}
	if h.store == nil {
		writeError(c, utils.E(utils.CodeNotConfigured, op, "delete failed", nil))
		return
	}

	if err := h.store.Delete(c.Request.Context(), storage.ImageKey(name)); err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "delete failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
