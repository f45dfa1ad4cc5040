package cmd

import (
	"fmt"

	"github.com/mediagrab/mediagrab/internal/queue"
	"github.com/mediagrab/mediagrab/internal/utils"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Process multiple downloads from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descs, err := queue.LoadFile(args[0], utils.ExpandHome(destDir))
			if err != nil {
				return err
			}
			batch, err := queue.NewFromDescriptors(descs)
			if err != nil {
				return fmt.Errorf("no valid entries in batch file: %w", err)
			}
			return runBatch(batch)
		},
	}
}
