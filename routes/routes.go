package routes

import (
	"github.com/gin-gonic/gin"

	"go-hotspot/db"
	"go-hotspot/engine"
	"go-hotspot/handlers"
)

func SetupRouter(eng *engine.Engine, store *db.Store) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Accident hotspot clustering service",
		})
	})

	// api routes
	api := r.Group("/api/hotspot")
	{
		api.POST("/cluster", func(c *gin.Context) {
			handlers.TriggerClustering(c, eng)
		})
		api.GET("/runs/:id", func(c *gin.Context) {
			handlers.GetRunStatus(c, eng)
		})
		api.POST("/runs/:id/cancel", func(c *gin.Context) {
			handlers.CancelRun(c, eng)
		})
		api.GET("/hotspots", func(c *gin.Context) {
			handlers.GetHotspots(c, store)
		})
		api.GET("/unclustered", func(c *gin.Context) {
			handlers.GetUnclustered(c, store)
		})
		api.GET("/validation-metrics", func(c *gin.Context) {
			handlers.GetValidationMetrics(c, store)
		})
	}

	return r
}
