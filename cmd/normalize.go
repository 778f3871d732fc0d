package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gosmt/smt"
	"gosmt/solvers/tree"
)

var (
	FormulaFile string
	TacticName  string
	DoSimplify  bool
)

var normalizeCommand = &cobra.Command{
	Use:   "normalize",
	Short: "rewrite a formula with a tactic",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := normalizeExec(); err != nil {
			fmt.Printf("service err: %v", err)
		} else {
			fmt.Printf("service quit")
		}
	},
}

func init() {
	normalizeCommand.Flags().StringVar(&FormulaFile, "file", "", "formula file")
	normalizeCommand.Flags().StringVar(&TacticName, "tactic", "nnf", "tactic to apply (nnf, tseitin-cnf, qe-light)")
	normalizeCommand.Flags().BoolVar(&DoSimplify, "simplify", false, "simplify before dumping")
}

func normalizeExec() error {
	data, err := os.ReadFile(FormulaFile)
	if err != nil {
		log.Errorf("read %s: %v", FormulaFile, err)
		return err
	}

	manager, err := tree.NewManager(tree.Config{NonLinearArithmetic: true})
	if err != nil {
		return err
	}
	formula, err := manager.Parse(string(data))
	if err != nil {
		log.Errorf("parse %s: %v", FormulaFile, err)
		return err
	}

	rewritten, err := manager.ApplyTactic(context.Background(), formula, smt.Tactic(TacticName))
	if err != nil {
		log.Errorf("apply tactic %s: %v", TacticName, err)
		return err
	}

	var out smt.Formula = rewritten
	if DoSimplify {
		if out, err = manager.Simplify(rewritten); err != nil {
			return err
		}
	}
	dumped, err := manager.Dump(out)
	if err != nil {
		return err
	}
	fmt.Println(dumped)
	return nil
}
