package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// partialSuffixes are the artifacts yt-dlp can leave behind after a failed
// or cancelled run.
var partialSuffixes = []string{".part", ".ytdl", ".temp"}

// Clean removes leftover partial download artifacts from dir. Best-effort:
// the first removal error is reported but everything removable is removed.
func Clean(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading directory: %w", err)
	}
	removed := 0
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !isPartialFile(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}

func isPartialFile(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
		// Fragment artifacts like video.mp4.part-Frag12
		if strings.Contains(name, suffix+"-Frag") {
			return true
		}
	}
	return false
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ExpandHome resolves a leading ~ in user-supplied paths.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
