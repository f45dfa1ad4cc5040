package cmd

import (
	"fmt"

	"github.com/mediagrab/mediagrab/internal/config"
	"github.com/mediagrab/mediagrab/internal/output"
	"github.com/mediagrab/mediagrab/internal/utils"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [DIR]",
		Short: "Remove leftover partial download files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := config.DownloadDir()
			if len(args) > 0 {
				dir = args[0]
			}
			dir = utils.ExpandHome(dir)
			removed, err := utils.Clean(dir)
			if err != nil {
				return err
			}
			output.PrintSuccess(fmt.Sprintf("Removed %d partial file(s) from %s", removed, dir))
			return nil
		},
	}
}
