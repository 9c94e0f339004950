package cronjobs

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"

	"go-hotspot/engine"
	"go-hotspot/types"
)

// Daily clustering schedule, 02:00 server time.
const clusteringSchedule = "0 2 * * *"

// scheduledParams assembles run parameters from the environment, falling
// back to the defaults for anything unset or unparsable.
func scheduledParams() types.RunParams {
	params := types.DefaultRunParams()

	if v := os.Getenv("HOTSPOT_LINKAGE"); v != "" {
		params.Linkage = types.Linkage(v)
	}
	if v := os.Getenv("HOTSPOT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.DistanceThreshold = f
		} else {
			log.Printf("Warning: invalid HOTSPOT_THRESHOLD %q, using default", v)
		}
	}
	if v := os.Getenv("HOTSPOT_MIN_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MinClusterSize = n
		} else {
			log.Printf("Warning: invalid HOTSPOT_MIN_SIZE %q, using default", v)
		}
	}
	if v := os.Getenv("HOTSPOT_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.TimeWindowDays = &n
		} else {
			log.Printf("Warning: invalid HOTSPOT_WINDOW_DAYS %q, ignoring", v)
		}
	}

	return params
}

func InitCronJobs(eng *engine.Engine) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Nightly hotspot re-clustering over the full accident store.
	_, err := c.AddFunc(clusteringSchedule, func() {
		log.Println("\nCronJob: Scheduled hotspot clustering running")

		params := scheduledParams()
		if err := params.Validate(); err != nil {
			log.Printf("CronJob: invalid scheduled parameters: %v", err)
			return
		}

		runID, err := eng.Trigger(context.Background(), params)
		if errors.Is(err, engine.ErrRunActive) {
			log.Println("CronJob: a clustering run is already active, skipping this tick")
			return
		}
		if err != nil {
			log.Printf("CronJob: could not trigger clustering: %v", err)
			return
		}
		log.Printf("CronJob: clustering run %s triggered", runID)
	})
	if err != nil {
		log.Println("Error scheduling hotspot clustering", err)
	}

	c.Start()
}
