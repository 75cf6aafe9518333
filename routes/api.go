package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/meili-bridge/app/controllers"
)

// SetupAPIRoutes registers the /v1 API surface.
func SetupAPIRoutes(router *gin.Engine, searchController *controllers.SearchController, adminController *controllers.AdminController) {
	v1 := router.Group("/v1")
	{
		search := v1.Group("/search")
		{
			search.POST("", searchController.Search)
			search.POST("/facets", searchController.Facets)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/meta-keys", adminController.GetMetaKeys)
			admin.PUT("/meta-keys", adminController.UpdateMetaKeys)
			admin.POST("/index/build", adminController.Reindex)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.GET("/stats", adminController.GetStats)
		}

		v1.GET("/health", searchController.HealthCheck)
	}
}

// SetupHealthRoutes registers root-level liveness and readiness probes.
func SetupHealthRoutes(router *gin.Engine, searchController *controllers.SearchController) {
	router.GET("/health", searchController.HealthCheck)
	router.GET("/ready", searchController.HealthCheck)
	router.GET("/live", searchController.HealthCheck)
}
