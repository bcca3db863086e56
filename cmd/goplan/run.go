package main

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/goplan/internal/dsl"
	"github.com/gitrdm/goplan/internal/problemset"
	"github.com/gitrdm/goplan/internal/search"
	"github.com/gitrdm/goplan/pkg/planner"
)

var (
	runFile        string
	runProblemName string
	runDemo        string
)

var demos = map[string]func() (*planner.Problem, []planner.Term, []planner.Term){
	"blocksworld":   problemset.Blocksworld,
	"spare-tire":    problemset.SpareTire,
	"air-cargo":     problemset.AirCargo,
	"book-ordering": func() (*planner.Problem, []planner.Term, []planner.Term) { return problemset.BookOrdering(5) },
	"math-example":  problemset.MathExample,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "search for a plan and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		problem, init, goal, err := loadProblem()
		if err != nil {
			return err
		}

		driver := search.New(problem, goal, cfg.Search)
		plan, err := driver.Run(init)
		if err != nil {
			logger.Error("search failed", zap.Error(err))
			return err
		}
		logger.Info("plan found", zap.String("run_id", plan.RunID.String()), zap.Int("steps", len(plan.Steps)))

		fmt.Printf("run %s\n", plan.RunID)
		for i, step := range plan.Steps {
			fmt.Printf("%d: %s\n", i+1, formatTransition(step))
		}
		fmt.Printf("goal reached in %d step(s)\n", len(plan.Steps))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "path to a .goplan source file")
	runCmd.Flags().StringVar(&runProblemName, "problem", "", "named problem block to run, when --file is given")
	runCmd.Flags().StringVar(&runDemo, "demo", "", fmt.Sprintf("run a bundled demo problem (%s)", strings.Join(demoNames(), ", ")))
	rootCmd.AddCommand(runCmd)
}

func demoNames() []string {
	names := make([]string, 0, len(demos))
	for n := range demos {
		names = append(names, n)
	}
	return names
}

func loadProblem() (*planner.Problem, []planner.Term, []planner.Term, error) {
	if runFile != "" {
		return loadFromFile(runFile, runProblemName)
	}
	if runDemo != "" {
		ctor, ok := demos[runDemo]
		if !ok {
			return nil, nil, nil, fmt.Errorf("unknown demo %q (have: %s)", runDemo, strings.Join(demoNames(), ", "))
		}
		return ctor()
	}
	return nil, nil, nil, fmt.Errorf("one of --file or --demo is required")
}

func loadFromFile(path, problemName string) (*planner.Problem, []planner.Term, []planner.Term, error) {
	doc, err := dsl.ParseFile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	callables := planner.StandardCallables()
	prog, err := dsl.Convert(doc, callables)
	if err != nil {
		return nil, nil, nil, err
	}

	spec, ok := prog.Problems[problemName]
	if !ok {
		if problemName == "" && len(prog.Problems) == 1 {
			for _, s := range prog.Problems {
				spec = s
			}
		} else {
			return nil, nil, nil, fmt.Errorf("problem %q not found in %s", problemName, path)
		}
	}

	var rng *rand.Rand
	if cfg.Search.RNGSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.Search.RNGSeed))
	}
	problem := planner.NewProblem(prog.Operators,
		cfg.Matching.NumericBucketing, cfg.Matching.PartialMatching, cfg.Matching.OccurCheck, rng)
	init := append(append([]planner.Term{}, prog.Facts...), spec.Init...)
	return problem, init, spec.Goal, nil
}

func formatTransition(t *planner.Transition) string {
	args := make([]string, len(t.Op.Args))
	for i, a := range t.Op.Args {
		args[i] = planner.Substitute(t.Sub, a).String()
	}
	return fmt.Sprintf("%s(%s)", t.Op.Name, strings.Join(args, ", "))
}
