package output

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mediagrab/mediagrab/internal/job"
	"github.com/mediagrab/mediagrab/internal/report"
	"github.com/mediagrab/mediagrab/internal/utils"
)

// Manager renders a live batch view: one line per job with status symbol,
// elapsed time, and a progress bar while running. It consumes snapshots
// pushed by the runner, so drawing never touches a running backend call.
type Manager struct {
	mutex       sync.RWMutex
	rows        map[string]job.Snapshot
	order       []string
	numLines    int
	doneCh      chan struct{}
	displayTick time.Duration
	displayWg   sync.WaitGroup
}

func NewManager() *Manager {
	return &Manager{
		rows:        make(map[string]job.Snapshot),
		doneCh:      make(chan struct{}),
		displayTick: 300 * time.Millisecond,
	}
}

// Track registers jobs so pending rows show up before their first update.
func (m *Manager) Track(snaps []job.Snapshot) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, snap := range snaps {
		if _, exists := m.rows[snap.Desc.ID]; !exists {
			m.order = append(m.order, snap.Desc.ID)
		}
		m.rows[snap.Desc.ID] = snap
	}
}

// Update replaces a job's row. Safe to call from worker goroutines.
func (m *Manager) Update(snap job.Snapshot) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.rows[snap.Desc.ID]; !exists {
		m.order = append(m.order, snap.Desc.ID)
	}
	m.rows[snap.Desc.ID] = snap
}

func (m *Manager) snapshots() []job.Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	snaps := make([]job.Snapshot, 0, len(m.order))
	for _, id := range m.order {
		snaps = append(snaps, m.rows[id])
	}
	return snaps
}

func (m *Manager) StartDisplay() {
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.updateDisplay()
				m.showSummary()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	close(m.doneCh)
	m.displayWg.Wait()
}

func statusIndicator(state job.State) string {
	switch state {
	case job.StateSucceeded:
		return successStyle.Render(StyleSymbols["pass"])
	case job.StateFailed:
		return errorStyle.Render(StyleSymbols["fail"])
	case job.StateCancelled, job.StateCancelling:
		return warningStyle.Render(StyleSymbols["warning"])
	case job.StatePending:
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["bullet"])
	}
}

func rowMessage(snap job.Snapshot) string {
	switch snap.State {
	case job.StatePending:
		return pendingStyle.Render("Waiting " + snap.Desc.URL)
	case job.StateRunning:
		return pendingStyle.Render("Downloading " + snap.Desc.URL)
	case job.StateCancelling:
		return warningStyle.Render("Cancelling " + snap.Desc.URL)
	case job.StateCancelled:
		return warningStyle.Render("Cancelled " + snap.Desc.URL)
	case job.StateSucceeded:
		if snap.OutputPath != "" {
			return successStyle.Render("Finished " + snap.OutputPath)
		}
		return successStyle.Render("Finished " + snap.Desc.URL)
	case job.StateFailed:
		return errorStyle.Render("Failed " + snap.Desc.URL)
	}
	return snap.Desc.URL
}

func elapsed(snap job.Snapshot) string {
	if snap.StartedAt.IsZero() {
		return "0s"
	}
	end := snap.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(snap.StartedAt).Round(time.Second).String()
}

func (m *Manager) updateDisplay() {
	snaps := m.snapshots()
	availableLines := getTerminalHeight() - 3

	if m.numLines > 0 {
		fmt.Printf("\033[%dA\033[J", m.numLines)
	}

	// Active rows first, then pending, then terminal, keeping batch order
	// within each group.
	sort.SliceStable(snaps, func(i, j int) bool {
		return groupRank(snaps[i].State) < groupRank(snaps[j].State)
	})

	lineCount := 0
	for _, snap := range snaps {
		if lineCount >= availableLines {
			break
		}
		line := fmt.Sprintf("  %s %s %s", statusIndicator(snap.State),
			debugStyle.Render(elapsed(snap)), rowMessage(snap))
		fmt.Println(truncateText(line, 2))
		lineCount++
		if snap.State.Active() && lineCount < availableLines {
			bar := ProgressBar(snap.Progress, 30)
			if snap.Speed != "" {
				bar += " " + debugStyle.Render(snap.Speed)
			}
			fmt.Printf("      %s\n", bar)
			lineCount++
		}
	}
	m.numLines = lineCount
}

func groupRank(state job.State) int {
	switch {
	case state.Active():
		return 0
	case state == job.StatePending:
		return 1
	default:
		return 2
	}
}

func (m *Manager) showSummary() {
	snaps := m.snapshots()
	summary := report.Summarize(snaps)
	completed := fmt.Sprintf("Completed %d of %d", summary.Succeeded, summary.Total)
	if size := totalOutputSize(snaps); size > 0 {
		completed += fmt.Sprintf(" (%s)", utils.FormatBytes(size))
	}
	fmt.Println()
	fmt.Printf("  %s\n", successStyle.Render(completed))
	if summary.Cancelled > 0 {
		fmt.Printf("  %s\n", warningStyle.Render(fmt.Sprintf("Cancelled %d of %d", summary.Cancelled, summary.Total)))
	}
	if summary.Failed > 0 {
		fmt.Printf("  %s\n", errorStyle.Render(fmt.Sprintf("Failed %d of %d", summary.Failed, summary.Total)))
		m.showErrors(snaps)
	}
	fmt.Println()
}

// totalOutputSize sums the on-disk size of every finished download.
// Best-effort: files that cannot be statted contribute nothing.
func totalOutputSize(snaps []job.Snapshot) uint64 {
	var total uint64
	for _, snap := range snaps {
		if snap.State != job.StateSucceeded || snap.OutputPath == "" {
			continue
		}
		if info, err := os.Stat(snap.OutputPath); err == nil && info.Size() > 0 {
			total += uint64(info.Size())
		}
	}
	return total
}

func (m *Manager) showErrors(snaps []job.Snapshot) {
	fmt.Println()
	fmt.Println("  " + errorStyle.Bold(true).Render("Errors:"))
	i := 0
	for _, snap := range snaps {
		if snap.State != job.StateFailed {
			continue
		}
		i++
		fmt.Printf("    %s %s\n", errorStyle.Render(fmt.Sprintf("%d.", i)),
			errorStyle.Render(snap.Desc.URL))
		if snap.ErrDetail != "" {
			fmt.Printf("      %s\n", streamStyle.Render(snap.ErrDetail))
		}
	}
}
