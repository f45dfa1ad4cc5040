package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mediagrab/mediagrab/internal/config"
	"github.com/mediagrab/mediagrab/internal/job"
	"github.com/mediagrab/mediagrab/internal/output"
	"github.com/mediagrab/mediagrab/internal/queue"
	"github.com/mediagrab/mediagrab/internal/utils"
	"github.com/spf13/cobra"
)

var (
	destDir   string
	formatArg string
	workers   int
	inputFile string
	debug     bool
	quiet     bool
)

var Version = "dev"

var rootCmd *cobra.Command

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mediagrab [URL]...",
		Short:   "Mediagrab downloads media URLs in batches through yt-dlp",
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Setup(); err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			applyConfigDefaults(cmd)
			utils.InitLogger(debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string{}, args...)
			if inputFile != "" {
				fromFile, err := readInputURLs(inputFile)
				if err != nil {
					return err
				}
				urls = append(urls, fromFile...)
			}
			format, err := job.ParseFormat(formatArg)
			if err != nil {
				return err
			}
			batch, err := queue.New(urls, format, utils.ExpandHome(destDir))
			if err != nil {
				return err
			}
			return runBatch(batch)
		},
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if err != errJobsFailed {
			output.PrintError(err.Error())
		}
		os.Exit(1)
	}
}

// applyConfigDefaults lets the config file supply defaults for flags the user
// did not set on the command line.
func applyConfigDefaults(cmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	if !flags.Changed("dir") {
		destDir = config.DownloadDir()
	}
	if !flags.Changed("format") {
		formatArg = config.Format()
	}
	if !flags.Changed("workers") {
		workers = config.Workers()
	}
	if !flags.Changed("debug") {
		debug = config.Debug()
	}
}

// readInputURLs reads one URL per line from a file, or stdin when path is "-".
func readInputURLs(path string) ([]string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading URL list: %w", err)
	}
	return queue.ParseText(string(data)), nil
}

func init() {
	rootCmd = newRootCmd()
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&destDir, "dir", "d", "", "Destination directory (defaults to configured download dir)")
	flags.StringVarP(&formatArg, "format", "f", string(job.DefaultFormat), "Output format (mp3-192, mp3-320, mp4-720, mp4-1080, mp4-best)")
	flags.IntVarP(&workers, "workers", "w", 1, "Number of downloads to run in parallel")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Disable the live progress display")

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "File with one URL per line ('-' for stdin)")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}
