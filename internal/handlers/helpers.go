package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/logger"
)

// ErrorResponse is the wire shape of every error payload.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse is the wire shape of simple confirmation payloads.
type MessageResponse struct {
	Message string `json:"message"`
}

// pathID returns a non-empty path parameter or ErrInvalidInput.
func pathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing "+param)
	}
	return id, nil
}

// requireDatasetQuery returns the dataset_id query parameter or
// ErrInvalidInput.
func requireDatasetQuery(c *gin.Context) (string, error) {
	id := c.Query("dataset_id")
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "dataset_id query parameter is required")
	}
	return id, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
