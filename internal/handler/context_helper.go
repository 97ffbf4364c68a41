package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/proyectos-api/internal/middleware"
	"github.com/edutrack/proyectos-api/internal/models"
)

func principalFromContext(c *gin.Context) string {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return models.PrincipalSystem
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims.UserID == "" {
		return models.PrincipalSystem
	}
	return claims.UserID
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
