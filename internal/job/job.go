// Package job holds the per-download state machine. A Job is owned by the
// runner; everything else reads it through immutable snapshots.
package job

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

type Job struct {
	Desc Descriptor

	mu         sync.Mutex
	state      State
	progress   float64 // 0-100
	speed      string
	errDetail  string
	outputPath string
	startedAt  time.Time
	finishedAt time.Time
}

// Snapshot is a read-only copy of a Job's mutable state, safe to hand to
// display and reporting code while the runner keeps working.
type Snapshot struct {
	Desc       Descriptor
	State      State
	Progress   float64
	Speed      string
	ErrDetail  string
	OutputPath string
	StartedAt  time.Time
	FinishedAt time.Time
}

func New(desc Descriptor) *Job {
	return &Job{Desc: desc, state: StatePending}
}

func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Snapshot{
		Desc:       j.Desc,
		State:      j.state,
		Progress:   j.progress,
		Speed:      j.speed,
		ErrDetail:  j.errDetail,
		OutputPath: j.outputPath,
		StartedAt:  j.startedAt,
		FinishedAt: j.finishedAt,
	}
}

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// transition applies a state change if the table allows it. Illegal requests
// are dropped with a warning, never a crash.
func (j *Job) transition(to State) bool {
	if !legal(j.state, to) {
		log.Warn().Str("component", "job").Str("id", j.Desc.ID).
			Msgf("Ignoring illegal transition %s -> %s", j.state, to)
		return false
	}
	j.state = to
	switch to {
	case StateRunning:
		j.startedAt = time.Now()
	case StateSucceeded, StateFailed, StateCancelled:
		j.finishedAt = time.Now()
	}
	return true
}

func (j *Job) Start() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transition(StateRunning)
}

// SetProgress clamps to [0,100] and ignores regressions so a backend report
// that goes backwards never moves the bar backwards.
func (j *Job) SetProgress(percent float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateRunning {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent > j.progress {
		j.progress = percent
	}
}

// SetSpeed records the backend's transfer-rate string for display.
func (j *Job) SetSpeed(speed string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateRunning || speed == "" {
		return
	}
	j.speed = speed
}

func (j *Job) Succeed(outputPath string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.transition(StateSucceeded) {
		return false
	}
	j.progress = 100
	j.outputPath = outputPath
	return true
}

func (j *Job) Fail(detail string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.transition(StateFailed) {
		return false
	}
	j.errDetail = sanitizeDetail(detail)
	return true
}

// RequestCancel moves a pending job straight to cancelled, or flags a running
// job as cancelling. Returns the state after the request.
func (j *Job) RequestCancel() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.state {
	case StatePending:
		j.transition(StateCancelled)
	case StateRunning:
		j.transition(StateCancelling)
	}
	return j.state
}

// FinishCancel marks the cancellation complete once the backend has exited.
func (j *Job) FinishCancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transition(StateCancelled)
}

const maxDetailLen = 300

// sanitizeDetail trims backend error text to a single displayable line.
func sanitizeDetail(detail string) string {
	detail = strings.TrimSpace(detail)
	detail = strings.ReplaceAll(detail, "\r", "")
	if idx := strings.LastIndex(detail, "\n"); idx >= 0 {
		// Keep the last line, usually the actual error from the tool.
		last := strings.TrimSpace(detail[idx+1:])
		if last != "" {
			detail = last
		} else {
			detail = strings.ReplaceAll(detail, "\n", " ")
		}
	}
	// Truncate on a rune boundary; yt-dlp errors quote video titles, which
	// are frequently multi-byte.
	if utf8.RuneCountInString(detail) > maxDetailLen {
		runes := []rune(detail)
		detail = string(runes[:maxDetailLen]) + "..."
	}
	return detail
}
