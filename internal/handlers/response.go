package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/logger"
	"github.com/ukuvago/themeboard/internal/services"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func respondData(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Success: true, Data: data, Message: message})
}

func respondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// respondError maps err to its status code. Unclassified errors are logged
// and reported as a generic server error.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.Error(err)
	c.JSON(status, Response{Success: false, Message: apperrors.Message(err)})
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, apperrors.Validation(message))
}

// bindOptionalJSON binds a JSON body that may be omitted entirely, leaving
// req at its zero value. It answers 400 and returns false on a bad body.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err.Error())
		return false
	}
	return true
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondBadRequest(c, "Invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalID parses a uuid that may be absent or blank.
func parseOptionalID(value *string, entity string) (*uuid.UUID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*value))
	if err != nil {
		return nil, apperrors.Validation("Invalid " + entity + " ID")
	}
	return &id, nil
}

// saveUploadedImage stores the optional "image" file of a multipart request.
// It returns nil when the request carries no image.
func saveUploadedImage(c *gin.Context, storage *services.StorageService, kind string) (*string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.Validation("Invalid image upload")
	}

	path, err := storage.SaveImage(kind, file)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// discardImage removes an image saved for a request that then failed.
func discardImage(storage *services.StorageService, path *string) {
	if path == nil {
		return
	}
	if err := storage.DeleteImage(*path); err != nil {
		logger.Warn().Err(err).Str("path", *path).Msg("failed to discard uploaded image")
	}
}
