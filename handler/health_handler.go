package handler

import (
	"notevault/config"
	"notevault/utils"

	"github.com/gin-gonic/gin"
)

func HealthHandler(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":  "ok",
		"version": config.Version,
	})
}
