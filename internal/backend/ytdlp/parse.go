package ytdlp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mediagrab/mediagrab/internal/backend"
)

var (
	progressRegex    = regexp.MustCompile(`^\[download\]\s+(\d+(?:\.\d+)?)%(?:\s+of\s+~?\s*\S+)?(?:\s+at\s+(\S+))?(?:\s+ETA\s+(\S+))?`)
	destinationRegex = regexp.MustCompile(`^\[download\]\s+Destination:\s+(.+)$`)
	mergerRegex      = regexp.MustCompile(`^\[Merger\]\s+Merging formats into\s+"(.+)"`)
	extractRegex     = regexp.MustCompile(`^\[ExtractAudio\]\s+Destination:\s+(.+)$`)
)

// parseLine interprets one line of yt-dlp output. It returns a progress event
// when the line carries a percentage, and the output path when the line names
// the destination file. Unrecognized lines yield neither.
func parseLine(line string) (ev *backend.Event, outputPath string) {
	line = strings.TrimSpace(line)
	if m := progressRegex.FindStringSubmatch(line); m != nil {
		percent, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, ""
		}
		return &backend.Event{
			Percent: percent,
			Speed:   m[2],
			ETA:     m[3],
			Line:    line,
		}, ""
	}
	for _, re := range []*regexp.Regexp{mergerRegex, extractRegex, destinationRegex} {
		if m := re.FindStringSubmatch(line); m != nil {
			return nil, strings.TrimSpace(m[1])
		}
	}
	return nil, ""
}
