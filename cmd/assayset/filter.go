package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/omixkit/assayset/internal/dataset"
	"github.com/omixkit/assayset/internal/output"
)

func newFilterCmd() *cobra.Command {
	var (
		in         inputFlags
		regionArgs []string
		sampleIDs  []string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "filter [experiment]",
		Short: "Extract the assay matrix for genomic regions and samples",
		Long: `Filter an experiment's features by genomic region overlap (half-open
coordinates, chrom:start-end) and optionally restrict the samples. Multiple
--region flags are queried in parallel; each region's matrix is written under
a "# region" comment line.`,
		Example: `  assayset filter --db study.duckdb --region chr12:25205246-25250929 rnaseq
  assayset filter --db study.duckdb --region chr1:1-1000000 --sample s1 --sample s2 rnaseq
  assayset filter --matrix m.tsv --features f.tsv --samples s.tsv --region chr17:7668402-7687550`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			experiment := ""
			if len(args) > 0 {
				experiment = args[0]
			}
			return runFilter(&in, experiment, regionArgs, sampleIDs, outputFile)
		},
	}

	in.register(cmd)
	cmd.Flags().StringArrayVar(&regionArgs, "region", nil, "genomic region chrom:start-end (repeatable)")
	cmd.Flags().StringArrayVar(&sampleIDs, "sample", nil, "restrict to this sample id (repeatable)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runFilter(in *inputFlags, experiment string, regionArgs, sampleIDs []string, outputFile string) error {
	if len(regionArgs) == 0 {
		return errors.New("at least one --region required")
	}

	regions := make([]dataset.Region, len(regionArgs))
	for i, arg := range regionArgs {
		r, err := dataset.ParseRegion(arg)
		if err != nil {
			return err
		}
		regions[i] = r
	}

	t, err := in.loadTable(experiment)
	if err != nil {
		return err
	}

	if len(sampleIDs) > 0 {
		t, err = t.Subset(dataset.All(), dataset.IDs(sampleIDs...))
		if err != nil {
			return err
		}
	}

	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	if len(regions) == 1 {
		sub, err := t.FilterRowsByRegion(regions[0])
		if err != nil {
			return err
		}
		logger.Info("filtered region",
			zap.String("region", regions[0].String()),
			zap.Int("features", sub.NumRows()),
		)
		return output.NewMatrixWriter(out).WriteTable(sub)
	}

	queries := make(chan dataset.RegionQuery, len(regions))
	for i, r := range regions {
		queries <- dataset.RegionQuery{Seq: i, Region: r}
	}
	close(queries)

	results := t.FilterRegions(queries, viper.GetInt("workers"))
	return dataset.CollectOrdered(results, func(r dataset.RegionResult) error {
		if r.Err != nil {
			return fmt.Errorf("region %s: %w", r.Region, r.Err)
		}
		if _, err := fmt.Fprintf(out, "# region %s\n", r.Region); err != nil {
			return err
		}
		return output.NewMatrixWriter(out).WriteTable(r.Table)
	})
}
