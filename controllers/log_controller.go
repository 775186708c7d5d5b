package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/middlewares"
	"github.com/hassam391/stead-backend/services"
)

type LogController struct {
	Svc *services.LogService
	Log logrus.FieldLogger
}

func NewLogController(svc *services.LogService, log logrus.FieldLogger) *LogController {
	return &LogController{Svc: svc, Log: log}
}

// POST /api/log
func (h *LogController) Create(c *gin.Context) {
	var req services.PlainLogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid log payload")
		return
	}
	if err := h.Svc.Create(c.Request.Context(), c.GetString(middlewares.ContextEmail), req); err != nil {
		respondError(c, h.Log, err, "Server error.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Log saved successfully!"})
}

// GET /api/log/check
func (h *LogController) Check(c *gin.Context) {
	logged, err := h.Svc.CheckToday(c.Request.Context(), c.GetString(middlewares.ContextEmail))
	if err != nil {
		respondError(c, h.Log, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"loggedToday": logged})
}
