package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSamplesCmd() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "samples [experiment...]",
		Short: "List cohort samples or the intersection across experiments",
		Long: `Without arguments, list every sample in the study cohort. With experiment
names, list only the samples that have data in all of them.`,
		Example: `  assayset samples --db study.duckdb
  assayset samples --db study.duckdb rnaseq methylation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSamples(&in, args)
		},
	}

	in.register(cmd)
	return cmd
}

func runSamples(in *inputFlags, experiments []string) error {
	c, err := in.loadCollection()
	if err != nil {
		return err
	}

	ids := c.Samples()
	if len(experiments) > 0 {
		ids, err = c.SamplesWith(experiments...)
		if err != nil {
			return err
		}
	}

	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
