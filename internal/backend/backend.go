// Package backend defines the capability interface for the external media
// extraction tool. The runner only ever talks to this interface; the single
// production implementation lives in backend/ytdlp.
package backend

import (
	"context"
	"errors"

	"github.com/mediagrab/mediagrab/internal/job"
)

// ErrUnavailable means the extraction tool is missing or misconfigured.
// The runner fails every pending job with this reason and never retries.
var ErrUnavailable = errors.New("media backend unavailable")

// Event is one progress report from the backend. Percent is the only field
// that matters for correctness; Speed and ETA are advisory and may be empty.
type Event struct {
	Percent float64
	Speed   string
	ETA     string
	Line    string
}

// Result is the terminal success outcome of a fetch.
type Result struct {
	OutputPath string
}

// MediaBackend resolves a URL to a media file on disk.
//
// Fetch blocks until the underlying process has exited. Cancelling ctx
// signals the process to stop; Fetch still does not return until the process
// is gone, which is what lets the runner honor the cancellation grace period.
// Progress events are sent on events if it is non-nil; sends must not block
// the fetch (the runner drains the channel).
type MediaBackend interface {
	Available() error
	Fetch(ctx context.Context, desc job.Descriptor, events chan<- Event) (Result, error)
}
