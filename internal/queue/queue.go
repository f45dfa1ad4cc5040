// Package queue turns raw user input into an ordered batch of jobs.
package queue

import (
	"errors"
	"strings"

	"github.com/mediagrab/mediagrab/internal/job"
)

// ErrEmptyBatch means no usable URL survived parsing; nothing was enqueued.
var ErrEmptyBatch = errors.New("no URLs in batch")

// Batch is an ordered set of jobs submitted together. Order is submission
// order and never changes. Duplicate URL+destination pairs are kept as
// distinct jobs; deduplication is the user's call.
type Batch struct {
	jobs []*job.Job
}

// ParseLines extracts URLs from raw input lines. Lines are trimmed, blanks
// skipped silently, everything else is taken as-is. Malformed URLs surface
// as backend failures later, not here.
func ParseLines(lines []string) []string {
	var urls []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}

// ParseText splits free-form multi-line text, one URL per line.
func ParseText(text string) []string {
	return ParseLines(strings.Split(text, "\n"))
}

// New builds a batch with one job per URL, all sharing the given format and
// destination directory.
func New(urls []string, format job.Format, destDir string) (*Batch, error) {
	urls = ParseLines(urls)
	if len(urls) == 0 {
		return nil, ErrEmptyBatch
	}
	b := &Batch{}
	for _, url := range urls {
		b.Append(job.NewDescriptor(url, format, destDir))
	}
	return b, nil
}

// NewFromDescriptors builds a batch from pre-built descriptors, preserving
// order. Used by the YAML batch loader where entries carry their own format.
func NewFromDescriptors(descs []job.Descriptor) (*Batch, error) {
	if len(descs) == 0 {
		return nil, ErrEmptyBatch
	}
	b := &Batch{}
	for _, d := range descs {
		b.Append(d)
	}
	return b, nil
}

func (b *Batch) Append(desc job.Descriptor) *job.Job {
	j := job.New(desc)
	b.jobs = append(b.jobs, j)
	return j
}

// Jobs returns the jobs in submission order. The slice is shared with the
// batch; callers must not reorder it.
func (b *Batch) Jobs() []*job.Job {
	return b.jobs
}

func (b *Batch) Len() int {
	return len(b.jobs)
}

// Find returns the job with the given descriptor ID, or nil.
func (b *Batch) Find(id string) *job.Job {
	for _, j := range b.jobs {
		if j.Desc.ID == id {
			return j
		}
	}
	return nil
}

// Snapshots returns a point-in-time view of every job, in order.
func (b *Batch) Snapshots() []job.Snapshot {
	snaps := make([]job.Snapshot, 0, len(b.jobs))
	for _, j := range b.jobs {
		snaps = append(snaps, j.Snapshot())
	}
	return snaps
}
