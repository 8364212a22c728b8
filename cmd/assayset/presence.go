package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omixkit/assayset/internal/output"
)

func newPresenceCmd() *cobra.Command {
	var (
		in         inputFlags
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Write the sample-by-experiment presence matrix",
		Long: `Write a tab-delimited boolean matrix with one row per cohort sample and
one column per experiment: 1 where the sample has data in that experiment.
The output feeds set-overlap (upset) plotting tools directly.`,
		Example: `  assayset presence --db study.duckdb
  assayset presence --db study.duckdb -o presence.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresence(&in, outputFile)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runPresence(in *inputFlags, outputFile string) error {
	c, err := in.loadCollection()
	if err != nil {
		return err
	}

	p := c.PresenceMatrix()
	logger.Debug("built presence matrix",
		zap.Int("samples", len(p.SampleIDs)),
		zap.Int("experiments", len(p.Experiments)),
	)

	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	return output.NewPresenceWriter(out).WritePresence(p)
}
