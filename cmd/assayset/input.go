package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omixkit/assayset/internal/collection"
	"github.com/omixkit/assayset/internal/dataset"
	"github.com/omixkit/assayset/internal/source"
)

// inputFlags selects where experiment data comes from: a DuckDB study
// database or a triple of TSV files.
type inputFlags struct {
	db       string
	matrix   string
	features string
	samples  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.db, "db", "", "DuckDB study database (local path or s3:// URL)")
	cmd.Flags().StringVar(&f.matrix, "matrix", "", "assay matrix TSV (with --features and --samples)")
	cmd.Flags().StringVar(&f.features, "features", "", "feature metadata TSV")
	cmd.Flags().StringVar(&f.samples, "samples", "", "sample metadata TSV")
}

// loadTable materializes one experiment. With --db the experiment name is
// required; with TSV input it is ignored.
func (f *inputFlags) loadTable(experiment string) (*dataset.Table, error) {
	if f.db != "" {
		store, err := source.NewDuckDBStore(f.db)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		if experiment == "" {
			return nil, errors.New("experiment name required with --db")
		}
		t, err := store.LoadExperiment(experiment)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded experiment",
			zap.String("name", experiment),
			zap.Int("features", t.NumRows()),
			zap.Int("samples", t.NumCols()),
		)
		return t, nil
	}

	if f.matrix == "" || f.features == "" || f.samples == "" {
		return nil, errors.New("either --db or all of --matrix, --features, --samples required")
	}
	return source.NewTSVLoader(f.matrix, f.features, f.samples).Load()
}

// loadCollection materializes every experiment in the study database.
func (f *inputFlags) loadCollection() (*collection.Collection, error) {
	if f.db == "" {
		return nil, errors.New("--db required")
	}
	store, err := source.NewDuckDBStore(f.db)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	store.SetLogger(logger)

	return store.LoadCollection()
}
