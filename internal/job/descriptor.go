package job

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

// Format is one of the output presets offered to the user. Audio presets
// carry a bitrate, video presets a resolution cap.
type Format string

const (
	FormatMP3Low   Format = "mp3-192"
	FormatMP3High  Format = "mp3-320"
	FormatMP4720   Format = "mp4-720"
	FormatMP41080  Format = "mp4-1080"
	FormatMP4Best  Format = "mp4-best"
	DefaultFormat         = FormatMP4720
)

func (f Format) Kind() MediaKind {
	if strings.HasPrefix(string(f), "mp3") {
		return KindAudio
	}
	return KindVideo
}

// ParseFormat normalizes user input like "MP4_1080" or "mp3@320" to a preset.
func ParseFormat(raw string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("_", "-", "@", "-", ":", "-").Replace(normalized)
	switch Format(normalized) {
	case FormatMP3Low, FormatMP3High, FormatMP4720, FormatMP41080, FormatMP4Best:
		return Format(normalized), nil
	}
	return "", fmt.Errorf("unknown format %q (expected one of mp3-192, mp3-320, mp4-720, mp4-1080, mp4-best)", raw)
}

// Descriptor captures one requested download. Immutable once enqueued.
type Descriptor struct {
	ID      string
	URL     string
	Format  Format
	DestDir string
}

func NewDescriptor(url string, format Format, destDir string) Descriptor {
	return Descriptor{
		ID:      uuid.NewString(),
		URL:     url,
		Format:  format,
		DestDir: destDir,
	}
}

func (d Descriptor) Kind() MediaKind {
	return d.Format.Kind()
}

// DestKey identifies the output target. Jobs sharing a key must not run
// concurrently because they contend on the same output file.
func (d Descriptor) DestKey() string {
	return d.URL + "\x00" + d.DestDir
}
