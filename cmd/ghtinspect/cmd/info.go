package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pramsey-labs/ght/pkg/ght"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print node/leaf counts, extent, and schema for a .ght file",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	schema, err := ght.ExampleLiDARSchema()
	if err != nil {
		return fmt.Errorf("build example schema: %w", err)
	}

	cfg := ght.DefaultConfig()
	cfg.Logger = log
	cfg.Metrics = ght.NewMetrics()

	tree, err := ght.LoadTree(flagGHTFile, schema, cfg)
	if err != nil {
		return fmt.Errorf("load %s: %w", flagGHTFile, err)
	}

	extent, err := tree.Extent()
	if err != nil {
		return fmt.Errorf("compute extent: %w", err)
	}

	leaves := 0
	tree.Walk(func(hash string, n *ght.Node) bool {
		if n.IsLeaf() {
			leaves++
		}
		return true
	})

	fmt.Printf("file:        %s\n", flagGHTFile)
	fmt.Printf("points:      %d\n", tree.NumNodes())
	fmt.Printf("leaf nodes:  %d\n", leaves)
	fmt.Printf("extent:      x=[%f,%f] y=[%f,%f]\n", extent.X.Min, extent.X.Max, extent.Y.Min, extent.Y.Max)
	fmt.Printf("schema dims: %d\n", schema.NumDims())
	for _, d := range schema.Dimensions() {
		fmt.Printf("  %2d %-18s %s (scale=%g offset=%g)\n", d.Position, d.Name, d.Type, d.Scale, d.Offset)
	}
	return nil
}
