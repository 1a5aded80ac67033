package usecase

import (
	"context"
	"time"
)

// StartStaleClickMonitor periodically counts links that have been
// sitting in CLICKED beyond the window. Stale clicks usually mean a
// broken redirect on the survey side; they are surfaced through the
// gauge and the log, never auto-transitioned.
func (uc *DefaultLinkUsecase) StartStaleClickMonitor(ctx context.Context, interval, window time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seen = uc.sweepStaleClicks(time.Now().Add(-window), seen)
		}
	}
}

// sweepStaleClicks refreshes the per-project stale gauge. Projects
// reported on an earlier sweep that have since recovered are reset to
// zero; the returned set carries the labels touched so far.
func (uc *DefaultLinkUsecase) sweepStaleClicks(olderThan time.Time, seen map[string]bool) map[string]bool {
	links, err := uc.LinkRepo.ListStaleClicked(olderThan)
	if err != nil {
		uc.Logger.Error("stale click scan failed", "error", err.Error())
		return seen
	}

	perProject := make(map[string]int)
	for _, link := range links {
		perProject[link.ProjectID]++
	}
	for projectID := range seen {
		if _, ok := perProject[projectID]; !ok {
			uc.Metrics.StaleClickedLinks.WithLabelValues(projectID).Set(0)
		}
	}
	for projectID, count := range perProject {
		uc.Metrics.StaleClickedLinks.WithLabelValues(projectID).Set(float64(count))
		seen[projectID] = true
	}
	if len(links) > 0 {
		uc.Logger.Warn("stale clicked links detected", "total", len(links), "projects", len(perProject))
	}
	return seen
}
