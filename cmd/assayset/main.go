// Package main provides the assayset command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logger = zap.NewNop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "assayset",
		Short: "Coordinated assay tables with genomic subsetting",
		Long: `assayset works with coordinated assay tables: a numeric matrix bound to
feature and sample metadata, stored as TSV files or in a DuckDB database.
Tables can be subset by feature or sample and filtered by genomic region;
collections of experiments over a shared cohort can be intersected and
summarized as a presence matrix.`,
		Example: `  # Summarize the experiments in a study database
  assayset info --db study.duckdb

  # Extract the expression matrix around KRAS
  assayset filter --db study.duckdb --region chr12:25205246-25250929 rnaseq

  # Which samples have both RNA-seq and methylation data?
  assayset samples --db study.duckdb rnaseq methylation`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			return initLogger(verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.assayset.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newSamplesCmd())
	cmd.AddCommand(newPresenceCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".assayset")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("ASSAYSET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func initLogger(verbose bool) error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

// openOutput returns stdout when path is empty, otherwise creates the file.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
