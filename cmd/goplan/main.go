// Command goplan is the CLI front end for the planner: it checks and
// runs textual fact/operator/problem documents, and exposes the bundled
// demonstration problems.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/goplan/internal/config"
	"github.com/gitrdm/goplan/internal/obslog"
)

var (
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "goplan",
	Short: "goplan runs a first-order STRIPS-style planner over textual problem definitions",
	Long: `goplan is a first-order STRIPS-style planner: a term/unification core,
an indexed conjunctive pattern matcher with negation-as-failure and
computable predicates, and forward/backward search drivers.

Run a bundled demonstration problem or a .goplan source file with
"goplan run", or validate a source file with "goplan check".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if verbose {
			cfg.Logging.Verbose = true
		}

		logger, err = obslog.New(obslog.Options{Verbose: cfg.Logging.Verbose, Development: cfg.Logging.Development})
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		obslog.Sync(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "goplan.yaml", "path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
