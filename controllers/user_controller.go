package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hassam391/stead-backend/middlewares"
	"github.com/hassam391/stead-backend/services"
)

type UserController struct {
	Svc *services.UserService
	Log logrus.FieldLogger
}

func NewUserController(svc *services.UserService, log logrus.FieldLogger) *UserController {
	return &UserController{Svc: svc, Log: log}
}

func (h *UserController) Protected(c *gin.Context) {
	msg, err := h.Svc.Protected(c.Request.Context(), c.GetString(middlewares.ContextEmail))
	if err != nil {
		respondError(c, h.Log, err, "server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *UserController) Info(c *gin.Context) {
	info, err := h.Svc.Info(c.Request.Context(), c.GetString(middlewares.ContextEmail))
	if err != nil {
		respondError(c, h.Log, err, "server error")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *UserController) SaveJourney(c *gin.Context) {
	var req services.JourneyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid journey payload")
		return
	}
	if err := h.Svc.SaveJourney(c.Request.Context(), c.GetString(middlewares.ContextEmail), req); err != nil {
		respondError(c, h.Log, err, "failed to save journey")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "journey saved successfully"})
}

func (h *UserController) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing required fields")
		return
	}
	if err := h.Svc.Register(c.Request.Context(), c.GetString(middlewares.ContextEmail), req); err != nil {
		respondError(c, h.Log, err, "Server error during registration.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered and metrics created successfully."})
}
