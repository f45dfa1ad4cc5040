package ytdlp

import (
	"path/filepath"

	"github.com/mediagrab/mediagrab/internal/job"
)

// videoSelectors maps video presets to yt-dlp format expressions.
var videoSelectors = map[job.Format]string{
	job.FormatMP4720:  "bv*[height<=720]+ba/b[height<=720]",
	job.FormatMP41080: "bv*[height<=1080]+ba/b[height<=1080]",
	job.FormatMP4Best: "bv*+ba/b",
}

// audioQualities maps audio presets to bitrates.
var audioQualities = map[job.Format]string{
	job.FormatMP3Low:  "192K",
	job.FormatMP3High: "320K",
}

// buildArgs assembles the yt-dlp invocation for one descriptor. Output names
// are left to yt-dlp's own title templating inside the destination directory.
func buildArgs(desc job.Descriptor) []string {
	args := []string{
		"-q",
		"--progress",
		"--newline",
		"--progress-delta", "1",
		"--no-warnings",
		"--no-playlist",
		"--no-part",
		"-N", "8",
		"-o", filepath.Join(desc.DestDir, "%(title)s.%(ext)s"),
	}
	if desc.Kind() == job.KindAudio {
		args = append(args,
			"-f", "bestaudio",
			"-x",
			"--audio-format", "mp3",
			"--audio-quality", audioQualities[desc.Format],
		)
	} else {
		args = append(args,
			"-f", videoSelectors[desc.Format],
			"--merge-output-format", "mp4",
		)
	}
	args = append(args, desc.URL)
	return args
}
