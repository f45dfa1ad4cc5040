package ytdlp

import (
	"os"
	"os/exec"
	"path/filepath"
)

// locate checks if "yt-dlp" is in PATH or next to our own executable.
func locate() string {
	path, err := exec.LookPath("yt-dlp")
	if err == nil {
		return path
	}
	executable, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(executable), "yt-dlp")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		candidateExe := filepath.Join(filepath.Dir(executable), "yt-dlp.exe")
		if _, err := os.Stat(candidateExe); err == nil {
			return candidateExe
		}
	}
	return ""
}
