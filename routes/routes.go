package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/meili-bridge/app/controllers"
)

// SetupAllRoutes wires middleware and every route group.
func SetupAllRoutes(router *gin.Engine, searchController *controllers.SearchController, adminController *controllers.AdminController) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	SetupHealthRoutes(router, searchController)
	SetupAPIRoutes(router, searchController, adminController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}
