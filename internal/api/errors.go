package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/logger"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

func writeError(c *gin.Context, err error) {
	var validation *customerr.ValidationError
	switch {
	case errors.As(err, &validation):
		badRequest(c, validation.Error())
	case errors.Is(err, customerr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, customerr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, customerr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		logger.Error("request failed",
			zap.String("requestID", c.GetString(requestIDKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func invalidBody(err error) error {
	return customerr.Invalid("body", err.Error())
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
