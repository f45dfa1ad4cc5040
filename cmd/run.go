package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mediagrab/mediagrab/internal/backend/ytdlp"
	"github.com/mediagrab/mediagrab/internal/config"
	"github.com/mediagrab/mediagrab/internal/output"
	"github.com/mediagrab/mediagrab/internal/queue"
	"github.com/mediagrab/mediagrab/internal/report"
	"github.com/mediagrab/mediagrab/internal/runner"
)

var errJobsFailed = errors.New("encountered failed job(s)")

// runBatch wires the backend, runner, and display together and blocks until
// every job is terminal. Ctrl-C requests cancellation of the whole batch and
// waits for the backend processes to exit.
func runBatch(batch *queue.Batch) error {
	b := ytdlp.NewWithPath(config.YtdlpPath())
	r := runner.New(b, workers)

	var mgr *output.Manager
	if !quiet {
		mgr = output.NewManager()
		mgr.Track(batch.Snapshots())
		r.OnUpdate(mgr.Update)
		mgr.StartDisplay()
		defer mgr.StopDisplay()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			r.CancelAll()
		}
	}()

	if err := r.Run(context.Background(), batch); err != nil {
		output.PrintError(err.Error())
	}

	summary := report.Summarize(batch.Snapshots())
	if quiet {
		output.PrintInfo(fmt.Sprintf("Completed %d of %d", summary.Succeeded, summary.Total))
	}
	if summary.Failed > 0 {
		return errJobsFailed
	}
	return nil
}
