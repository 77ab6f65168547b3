package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmill/taskmill/internal/models"
)

// errorBody is the JSON error envelope: {"error": "...", "code": "..."}.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError maps domain errors onto transport status codes:
// NotFound → 404, Validation/InvalidParent → 400, everything else → 500.
func respondError(c *gin.Context, err error) {
	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, errorBody{Error: nf.Error(), Code: nf.ErrorCode()})
		return
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, errorBody{Error: ve.Error(), Code: ve.ErrorCode()})
		return
	}

	var pe *models.InvalidParentError
	if errors.As(err, &pe) {
		c.JSON(http.StatusBadRequest, errorBody{Error: pe.Error(), Code: pe.ErrorCode()})
		return
	}

	slog.Error("request failed", "error", err.Error())
	c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
}

// respondBadRequest reports a malformed request body.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Code: "BAD_REQUEST"})
}
