package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pramsey-labs/ght/pkg/ght"
)

var (
	flagDim  string
	flagMode string
	flagMin  float64
	flagMax  float64
	flagOut  string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter a .ght file by an attribute predicate and write the result",
	RunE:  runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVar(&flagDim, "dim", "", "dimension name to filter on")
	filterCmd.Flags().StringVar(&flagMode, "mode", "", "gt|lt|between|eq")
	filterCmd.Flags().Float64Var(&flagMin, "min", 0, "minimum value (gt/between/eq)")
	filterCmd.Flags().Float64Var(&flagMax, "max", 0, "maximum value (lt/between)")
	filterCmd.Flags().StringVar(&flagOut, "out", "", "output .ght path")

	_ = filterCmd.MarkFlagRequired("dim")
	_ = filterCmd.MarkFlagRequired("mode")
	_ = filterCmd.MarkFlagRequired("out")
}

func parseMode(s string) (ght.FilterMode, error) {
	switch s {
	case "gt":
		return ght.FilterGreaterThan, nil
	case "lt":
		return ght.FilterLessThan, nil
	case "between":
		return ght.FilterBetween, nil
	case "eq":
		return ght.FilterEqual, nil
	default:
		return 0, fmt.Errorf("unknown filter mode %q (want gt, lt, between, or eq)", s)
	}
}

func runFilter(cmd *cobra.Command, args []string) error {
	schema, err := ght.ExampleLiDARSchema()
	if err != nil {
		return fmt.Errorf("build example schema: %w", err)
	}

	dim, err := schema.DimensionByName(flagDim)
	if err != nil {
		return err
	}

	mode, err := parseMode(flagMode)
	if err != nil {
		return err
	}

	cfg := ght.DefaultConfig()
	cfg.Logger = log
	cfg.Metrics = ght.NewMetrics()

	tree, err := ght.LoadTree(flagGHTFile, schema, cfg)
	if err != nil {
		return fmt.Errorf("load %s: %w", flagGHTFile, err)
	}

	filtered, err := tree.Filter(ght.Filter{Dim: dim, Mode: mode, Min: flagMin, Max: flagMax})
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	if err := filtered.Save(flagOut); err != nil {
		return fmt.Errorf("save %s: %w", flagOut, err)
	}

	log.Info().
		Str("dim", flagDim).
		Str("mode", flagMode).
		Uint32("points_in", tree.NumNodes()).
		Uint32("points_out", filtered.NumNodes()).
		Msg("ghtinspect: filter complete")
	return nil
}
