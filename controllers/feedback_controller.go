package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/services"
)

type FeedbackController struct {
	Svc *services.FeedbackService
	Log logrus.FieldLogger
}

func NewFeedbackController(svc *services.FeedbackService, log logrus.FieldLogger) *FeedbackController {
	return &FeedbackController{Svc: svc, Log: log}
}

func (h *FeedbackController) Submit(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Feedback cannot be empty.")
		return
	}
	if err := h.Svc.Submit(c.Request.Context(), req.Message); err != nil {
		respondError(c, h.Log, err, "Server error.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted successfully."})
}
