// Package report derives batch-level summaries from job snapshots. All
// functions are pure reads, safe to call at any point of a run.
package report

import (
	"github.com/mediagrab/mediagrab/internal/job"
)

// Summary is the aggregate view of a batch.
type Summary struct {
	Total      int
	Pending    int
	Running    int
	Cancelling int
	Succeeded  int
	Failed     int
	Cancelled  int
	// Percent is the mean of per-job progress across the whole batch.
	Percent float64
}

// Done reports whether every job has reached a terminal state.
func (s Summary) Done() bool {
	return s.Succeeded+s.Failed+s.Cancelled == s.Total
}

// Summarize folds snapshots into counts and an overall percentage. Succeeded
// jobs count as 100 regardless of the last reported tick; failed and
// cancelled jobs keep whatever progress they reached.
func Summarize(snaps []job.Snapshot) Summary {
	var s Summary
	s.Total = len(snaps)
	if s.Total == 0 {
		return s
	}
	var sum float64
	for _, snap := range snaps {
		switch snap.State {
		case job.StatePending:
			s.Pending++
		case job.StateRunning:
			s.Running++
		case job.StateCancelling:
			s.Cancelling++
		case job.StateSucceeded:
			s.Succeeded++
		case job.StateFailed:
			s.Failed++
		case job.StateCancelled:
			s.Cancelled++
		}
		if snap.State == job.StateSucceeded {
			sum += 100
		} else {
			sum += snap.Progress
		}
	}
	s.Percent = sum / float64(s.Total)
	return s
}
