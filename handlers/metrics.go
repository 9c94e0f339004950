package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-hotspot/db"
)

// GetValidationMetrics returns the cluster-quality indices of the latest
// succeeded run: silhouette, Davies-Bouldin and Calinski-Harabasz, plus
// the quality rating and run metadata.
func GetValidationMetrics(c *gin.Context, store *db.Store) {
	ctx := c.Request.Context()

	run, err := store.LatestSucceededRun(ctx)
	if err != nil {
		log.Printf("ERROR fetching latest run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to resolve latest clustering run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "No validation metrics available. Please run clustering first.",
		})
		return
	}

	metrics, err := store.MetricsByRun(ctx, run.ID)
	if err != nil {
		log.Printf("ERROR fetching metrics for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve validation metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"metrics": gin.H{
			"silhouette_score":        metrics.Silhouette,
			"davies_bouldin_index":    metrics.DaviesBouldin,
			"calinski_harabasz_score": metrics.CalinskiHarabasz,
		},
		"quality": gin.H{
			"overall": metrics.InterpretQuality(),
			"rating":  metrics.Quality,
		},
		"metadata": gin.H{
			"run_id":             metrics.RunID,
			"clustering_date":    metrics.ComputedAt.Format("2006-01-02 15:04"),
			"num_clusters":       metrics.NumClusters,
			"total_accidents":    metrics.TotalPoints,
			"linkage_method":     metrics.LinkageMethod,
			"distance_threshold": metrics.DistanceThreshold,
		},
	})
}
