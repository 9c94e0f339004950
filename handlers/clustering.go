package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-hotspot/engine"
	"go-hotspot/types"
)

// TriggerClustering starts a clustering run in the background and returns
// its id. Parameters are optional; missing fields fall back to the
// defaults (complete linkage, 0.05 degrees, minimum size 3). A run already
// in flight is rejected with 409, never queued.
func TriggerClustering(c *gin.Context, eng *engine.Engine) {
	params := types.DefaultRunParams()
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run parameters: " + err.Error()})
			return
		}
	}

	runID, err := eng.Trigger(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrRunActive):
			c.JSON(http.StatusConflict, gin.H{"error": "A clustering run is already active"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	log.Printf("Handler: Triggered clustering run %s (linkage=%s threshold=%.4f minSize=%d)",
		runID, params.Linkage, params.DistanceThreshold, params.MinClusterSize)

	c.JSON(http.StatusAccepted, gin.H{"run_id": runID, "status": types.RunPending})
}

// GetRunStatus returns the polled status snapshot of one run.
func GetRunStatus(c *gin.Context, eng *engine.Engine) {
	run, err := eng.Status(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// CancelRun requests cooperative cancellation of an active run. The run
// stops between pipeline stages; once persistence has begun the request
// has no effect.
func CancelRun(c *gin.Context, eng *engine.Engine) {
	if err := eng.Cancel(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Cancellation requested"})
}
