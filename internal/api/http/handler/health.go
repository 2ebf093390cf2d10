package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceVersion = "1.0.0"

// Health handles GET /healthz.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "debtkeeper-server",
		"status":  "healthy",
		"version": serviceVersion,
	})
}
