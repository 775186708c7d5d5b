package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/middlewares"
	"github.com/hassam391/stead-backend/services"
)

// respondError maps service errors to a status and a {"message"} body.
// Anything unclassified is logged and reported as a generic 500.
func respondError(c *gin.Context, log logrus.FieldLogger, err error, fallback string) {
	var svcErr *services.Error
	status := http.StatusInternalServerError
	msg := fallback

	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(middlewares.ContextRequestID),
			"path":       c.FullPath(),
		}).Error("request failed")
	} else if errors.As(err, &svcErr) {
		msg = svcErr.Message
	} else {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
