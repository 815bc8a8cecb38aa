package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chainchat/backend/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// queryInt reads a non-negative integer query parameter, def when absent.
func queryInt(c *gin.Context, op, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid "+name, err))
		return 0, false
	}
	return n, true
}

// queryLimit reads a page size. Zero or absent means def; larger values are
// clamped to upper.
func queryLimit(c *gin.Context, op string, def, upper int) (int, bool) {
	n, ok := queryInt(c, op, "limit", def)
	switch {
	case !ok:
		return 0, false
	case n == 0:
		return def, true
	case n > upper:
		return upper, true
	}
	return n, true
}

func notFound(c *gin.Context, op, what string) {
	writeError(c, utils.E(utils.CodeNotFound, op, what+" not found", nil))
}
