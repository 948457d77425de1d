// Package cmd implements the ghtinspect command-line surface: inspecting
// and filtering serialized GHT tree files.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagGHTFile  string
	flagLogLevel string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ghtinspect",
	Short: "Inspect and filter geohash-prefix-trie point cloud files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel()
	},
}

// Execute runs the configured command tree, exiting with status 1 if any
// command returns an error and 0 otherwise.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagGHTFile, "ghtfile", "", "path to a .ght tree file")
	rootCmd.PersistentFlags().StringVarP(&flagLogLevel, "level", "l", "info", "log output level")
	_ = rootCmd.MarkPersistentFlagRequired("ghtfile")
}

func setLogLevel() {
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		log = log.Level(zerolog.InfoLevel)
		return
	}
	log = log.Level(level)
}
