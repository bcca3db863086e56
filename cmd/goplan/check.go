package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/goplan/internal/dsl"
	"github.com/gitrdm/goplan/pkg/planner"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "parse and validate a .goplan source file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := dsl.ParseFile(args[0])
		if err != nil {
			return err
		}
		prog, err := dsl.Convert(doc, planner.StandardCallables())
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d fact(s), %d operator(s), %d problem(s)\n",
			args[0], len(prog.Facts), len(prog.Operators), len(prog.Problems))
		for _, op := range prog.Operators {
			fmt.Printf("  %s\n", op)
		}
		for name, p := range prog.Problems {
			fmt.Printf("  problem %s: %d init fact(s), %d goal conjunct(s)\n", name, len(p.Init), len(p.Goal))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
