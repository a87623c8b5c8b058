// Package demand turns raw job and worker counts into the demand signals
// stored on a skill: a scarcity score, a growth rate and the per-region share
// of recent jobs requiring it.
package demand

import (
	"math"
	"time"
)

const (
	// RecentWindow splits "recent" from "older" jobs for growth rate.
	RecentWindow = 15 * 24 * time.Hour
	// LookbackWindow bounds the jobs a caller should feed into GrowthRate and
	// RegionalDemand.
	LookbackWindow = 30 * 24 * time.Hour

	MaxDemandPct = 100
	// NoBaselineGrowthPct is reported when there are no older jobs to compare
	// against, including the case of no jobs at all.
	NoBaselineGrowthPct = 100
)

type Metrics struct {
	CurrentDemandPct int
	GrowthRatePct    int
	LastUpdated      time.Time
}

// DemandScore returns 0..100. No active workers is treated as maximum scarcity.
func DemandScore(recentJobCount, activeWorkerCount int) int {
	if activeWorkerCount <= 0 {
		return MaxDemandPct
	}
	if recentJobCount < 0 {
		recentJobCount = 0
	}
	ratio := float64(recentJobCount) / float64(activeWorkerCount)
	score := int(math.Round(ratio * 50))
	if score > MaxDemandPct {
		return MaxDemandPct
	}
	return score
}

// GrowthRate compares jobs created within RecentWindow of now against the
// rest of createdAt. Jobs older than LookbackWindow are expected to be
// filtered out by the caller's query.
func GrowthRate(createdAt []time.Time, now time.Time) int {
	cutoff := now.Add(-RecentWindow)

	recent, older := 0, 0
	for _, ts := range createdAt {
		if !ts.Before(cutoff) {
			recent++
		} else {
			older++
		}
	}

	if older == 0 {
		return NoBaselineGrowthPct
	}
	return int(math.Round(float64(recent-older) / float64(older) * 100))
}

func Compute(recentJobs []time.Time, activeWorkers int, now time.Time) Metrics {
	return Metrics{
		CurrentDemandPct: DemandScore(len(recentJobs), activeWorkers),
		GrowthRatePct:    GrowthRate(recentJobs, now),
		LastUpdated:      now,
	}
}
