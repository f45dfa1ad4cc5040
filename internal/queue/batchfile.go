package queue

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mediagrab/mediagrab/internal/job"
	"github.com/mediagrab/mediagrab/internal/output"
	"github.com/mediagrab/mediagrab/internal/utils"
)

type BatchEntry struct {
	Dir  string `yaml:"dir,omitempty"`
	Link string `yaml:"link"`
}

// BatchFile maps a format name to its entries, e.g.
//
//	mp3-320:
//	  - link: https://example.com/watch?v=abc
//	mp4-1080:
//	  - link: https://example.com/watch?v=def
//	    dir: ~/Videos
type BatchFile map[string][]BatchEntry

// LoadFile reads a YAML batch file and builds descriptors. Entries without a
// dir use defaultDir; unknown format sections and empty links are skipped
// with a warning on stderr.
func LoadFile(path, defaultDir string) ([]job.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	var batchFile BatchFile
	if err := yaml.Unmarshal(data, &batchFile); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	return buildDescriptors(batchFile, defaultDir), nil
}

func buildDescriptors(batchFile BatchFile, defaultDir string) []job.Descriptor {
	var descs []job.Descriptor
	for section, entries := range batchFile {
		format, err := job.ParseFormat(section)
		if err != nil {
			output.PrintWarning(fmt.Sprintf("Unknown format section '%s', skipping...", section))
			continue
		}
		for _, entry := range entries {
			if entry.Link == "" {
				output.PrintWarning(fmt.Sprintf("Empty link in %s section, skipping...", section))
				continue
			}
			dir := entry.Dir
			if dir == "" {
				dir = defaultDir
			}
			descs = append(descs, job.NewDescriptor(entry.Link, format, utils.ExpandHome(dir)))
		}
	}
	return descs
}
