package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-hotspot/db"
	"go-hotspot/types"
)

// DisplayRadiusMultiplier is the factor map renderers apply to a
// cluster's raw radius when drawing hotspot circles. It is carried in the
// response so the frontend never hardwires it.
const DisplayRadiusMultiplier = 1.2

// GetHotspots returns the hotspot clusters of the most recent succeeded
// run, in severity order.
func GetHotspots(c *gin.Context, store *db.Store) {
	ctx := c.Request.Context()

	run, err := store.LatestSucceededRun(ctx)
	if err != nil {
		log.Printf("ERROR fetching latest run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve latest clustering run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusOK, gin.H{"hotspots": []types.Cluster{}, "message": "No completed clustering run yet"})
		return
	}

	clusters, err := store.ClustersByRun(ctx, run.ID)
	if err != nil {
		log.Printf("ERROR fetching hotspots for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hotspots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":                    run.ID,
		"hotspots":                  clusters,
		"display_radius_multiplier": DisplayRadiusMultiplier,
	})
}

// GetUnclustered returns the points of the latest succeeded run whose
// merge group fell below the minimum cluster size.
func GetUnclustered(c *gin.Context, store *db.Store) {
	ctx := c.Request.Context()

	run, err := store.LatestSucceededRun(ctx)
	if err != nil {
		log.Printf("ERROR fetching latest run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve latest clustering run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusOK, gin.H{"unclustered": []types.UnclusteredPoint{}, "message": "No completed clustering run yet"})
		return
	}

	points, err := store.UnclusteredByRun(ctx, run.ID)
	if err != nil {
		log.Printf("ERROR fetching unclustered points for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve unclustered points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run_id": run.ID, "unclustered": points})
}
