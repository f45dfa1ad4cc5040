package ytdlp

import (
	"slices"
	"strings"
	"testing"

	"github.com/mediagrab/mediagrab/internal/job"
)

func hasFlagValue(args []string, flag, value string) bool {
	for i, a := range args {
		if a == flag && i+1 < len(args) && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestBuildArgsVideo(t *testing.T) {
	desc := job.NewDescriptor("https://example.com/watch?v=abc", job.FormatMP4720, "/data/videos")
	args := buildArgs(desc)

	if !hasFlagValue(args, "-f", "bv*[height<=720]+ba/b[height<=720]") {
		t.Errorf("Missing 720p selector in %v", args)
	}
	if !hasFlagValue(args, "--merge-output-format", "mp4") {
		t.Errorf("Video downloads should merge into mp4")
	}
	if slices.Contains(args, "-x") {
		t.Errorf("Video download must not extract audio")
	}
	if args[len(args)-1] != desc.URL {
		t.Errorf("URL should be the last argument, got %v", args)
	}
	if !hasFlagValue(args, "-o", "/data/videos/%(title)s.%(ext)s") {
		t.Errorf("Output template should live in the destination dir: %v", args)
	}
}

func TestBuildArgsVideoSelectors(t *testing.T) {
	cases := map[job.Format]string{
		job.FormatMP41080: "bv*[height<=1080]+ba/b[height<=1080]",
		job.FormatMP4Best: "bv*+ba/b",
	}
	for format, selector := range cases {
		desc := job.NewDescriptor("https://example.com/v", format, "/tmp")
		if !hasFlagValue(buildArgs(desc), "-f", selector) {
			t.Errorf("Format %s: expected selector %q", format, selector)
		}
	}
}

func TestBuildArgsAudio(t *testing.T) {
	desc := job.NewDescriptor("https://example.com/watch?v=abc", job.FormatMP3High, "/music")
	args := buildArgs(desc)

	if !slices.Contains(args, "-x") {
		t.Errorf("Audio download should extract audio: %v", args)
	}
	if !hasFlagValue(args, "--audio-format", "mp3") {
		t.Errorf("Audio format should be mp3")
	}
	if !hasFlagValue(args, "--audio-quality", "320K") {
		t.Errorf("mp3-320 should request 320K")
	}
	desc192 := job.NewDescriptor("https://example.com/watch?v=abc", job.FormatMP3Low, "/music")
	if !hasFlagValue(buildArgs(desc192), "--audio-quality", "192K") {
		t.Errorf("mp3-192 should request 192K")
	}
}

func TestBuildArgsCommonFlags(t *testing.T) {
	args := buildArgs(job.NewDescriptor("https://example.com/v", job.FormatMP4Best, "/tmp"))
	for _, flag := range []string{"--newline", "--progress", "--no-playlist", "--no-part", "--no-warnings"} {
		if !slices.Contains(args, flag) {
			t.Errorf("Missing %s in %s", flag, strings.Join(args, " "))
		}
	}
}
