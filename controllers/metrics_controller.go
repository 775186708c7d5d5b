package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/middlewares"
	"github.com/hassam391/stead-backend/services"
)

type MetricsController struct {
	Svc         *services.MetricsService
	Leaderboard *services.LeaderboardService
	Log         logrus.FieldLogger
}

func NewMetricsController(svc *services.MetricsService, lb *services.LeaderboardService, log logrus.FieldLogger) *MetricsController {
	return &MetricsController{Svc: svc, Leaderboard: lb, Log: log}
}

func (h *MetricsController) Metrics(c *gin.Context) {
	view, err := h.Svc.Read(c.Request.Context(), c.GetString(middlewares.ContextEmail))
	if err != nil {
		respondError(c, h.Log, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *MetricsController) LogActivity(c *gin.Context) {
	var req struct {
		Data *services.ActivityInput `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Data == nil {
		badRequest(c, "Invalid value logged")
		return
	}
	res, err := h.Svc.LogActivity(c.Request.Context(), c.GetString(middlewares.ContextEmail), *req.Data)
	if err != nil {
		respondError(c, h.Log, err, "Failed to save log")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *MetricsController) RewardsSeen(c *gin.Context) {
	if err := h.Svc.ClearRewardAlert(c.Request.Context(), c.GetString(middlewares.ContextEmail)); err != nil {
		respondError(c, h.Log, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MetricsController) TitleDisplay(c *gin.Context) {
	view, err := h.Svc.TitleDisplay(c.Request.Context(), c.GetString(middlewares.ContextEmail))
	if err != nil {
		respondError(c, h.Log, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *MetricsController) RecentLogs(c *gin.Context) {
	logs, err := h.Svc.RecentLogs(c.Request.Context(), c.GetString(middlewares.ContextEmail))
	if err != nil {
		respondError(c, h.Log, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GET /api/metrics/leaderboard (public)
func (h *MetricsController) GetLeaderboard(c *gin.Context) {
	entries, err := h.Leaderboard.Build(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, entries)
}
