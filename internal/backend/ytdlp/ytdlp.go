// Package ytdlp is the production MediaBackend: it shells out to yt-dlp and
// translates its line-based progress output into backend events.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/mediagrab/mediagrab/internal/backend"
	"github.com/mediagrab/mediagrab/internal/job"
	"github.com/mediagrab/mediagrab/internal/utils"
)

// killGrace is how long a cancelled yt-dlp process gets to exit after the
// interrupt signal before it is killed.
const killGrace = 2 * time.Second

type Backend struct {
	path string
}

func New() *Backend {
	return &Backend{path: locate()}
}

// NewWithPath uses an explicit yt-dlp binary, for configs that pin one.
func NewWithPath(path string) *Backend {
	if path == "" {
		return New()
	}
	return &Backend{path: path}
}

func (b *Backend) Available() error {
	if b.path == "" {
		return fmt.Errorf("%w: yt-dlp not found in PATH or alongside the executable", backend.ErrUnavailable)
	}
	if _, err := os.Stat(b.path); err != nil {
		return fmt.Errorf("%w: %s: %v", backend.ErrUnavailable, b.path, err)
	}
	return nil
}

func (b *Backend) Fetch(ctx context.Context, desc job.Descriptor, events chan<- backend.Event) (backend.Result, error) {
	logger := utils.GetLogger("ytdlp")
	if err := b.Available(); err != nil {
		return backend.Result{}, err
	}
	if err := os.MkdirAll(desc.DestDir, 0755); err != nil {
		return backend.Result{}, fmt.Errorf("creating destination directory: %w", err)
	}

	args := buildArgs(desc)
	cmd := exec.CommandContext(ctx, b.path, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = killGrace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return backend.Result{}, fmt.Errorf("creating stdout pipe: %w", err)
	}
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	logger.Debug().Str("url", desc.URL).Str("format", string(desc.Format)).Msg("Starting yt-dlp")
	if err := cmd.Start(); err != nil {
		return backend.Result{}, fmt.Errorf("starting yt-dlp: %w", err)
	}

	outputPath := scanOutput(stdout, events)
	err = cmd.Wait()

	if err != nil {
		if ctx.Err() != nil {
			return backend.Result{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := stderrBuf.String()
			if detail == "" {
				detail = err.Error()
			}
			return backend.Result{}, fmt.Errorf("yt-dlp exited with code %d: %s", exitErr.ExitCode(), detail)
		}
		return backend.Result{}, fmt.Errorf("running yt-dlp: %w", err)
	}
	logger.Debug().Str("url", desc.URL).Str("output", outputPath).Msg("yt-dlp finished")
	return backend.Result{OutputPath: outputPath}, nil
}

// scanOutput reads yt-dlp stdout to completion, forwarding progress events
// and remembering the most recent destination path (the merged or extracted
// file supersedes earlier per-stream destinations).
func scanOutput(pipe io.Reader, events chan<- backend.Event) string {
	var outputPath string
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		ev, path := parseLine(scanner.Text())
		if path != "" {
			outputPath = path
		}
		if ev != nil && events != nil {
			select {
			case events <- *ev:
			default:
				// Receiver is behind; dropping a progress tick is harmless.
			}
		}
	}
	return outputPath
}
