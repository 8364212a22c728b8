package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omixkit/assayset/internal/output"
)

func newInfoCmd() *cobra.Command {
	var (
		in           inputFlags
		listFeatures bool
	)

	cmd := &cobra.Command{
		Use:   "info [experiment]",
		Short: "Summarize a study database or a single experiment",
		Example: `  assayset info --db study.duckdb
  assayset info --db study.duckdb rnaseq
  assayset info --db study.duckdb rnaseq --list-features`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInfoStudy(&in)
			}
			return runInfoExperiment(&in, args[0], listFeatures)
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&listFeatures, "list-features", false, "print the feature metadata table")

	return cmd
}

func runInfoStudy(in *inputFlags) error {
	c, err := in.loadCollection()
	if err != nil {
		return err
	}

	fmt.Printf("experiments: %d\n", len(c.Experiments()))
	fmt.Printf("cohort samples: %d\n", len(c.Samples()))
	for _, name := range c.Experiments() {
		t, _ := c.Experiment(name)
		fmt.Printf("  %s: %d features x %d samples\n", name, t.NumRows(), t.NumCols())
	}
	return nil
}

func runInfoExperiment(in *inputFlags, name string, listFeatures bool) error {
	t, err := in.loadTable(name)
	if err != nil {
		return err
	}

	fmt.Printf("experiment: %s\n", name)
	fmt.Printf("features: %d\n", t.NumRows())
	fmt.Printf("samples: %d\n", t.NumCols())

	if listFeatures {
		return output.NewFeatureWriter(os.Stdout).WriteFeatures(t.RowMeta())
	}
	return nil
}
