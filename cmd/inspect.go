package main

import (
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gosmt/solvers/tree"
)

var InspectFile string

var inspectCommand = &cobra.Command{
	Use:   "inspect",
	Short: "report the symbols of a formula",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		if err := inspectExec(); err != nil {
			fmt.Printf("service err: %v", err)
		} else {
			fmt.Printf("service quit")
		}
	},
}

func init() {
	inspectCommand.Flags().StringVar(&InspectFile, "file", "", "formula file")
}

func inspectExec() error {
	data, err := os.ReadFile(InspectFile)
	if err != nil {
		log.Errorf("read %s: %v", InspectFile, err)
		return err
	}

	manager, err := tree.NewManager(tree.Config{NonLinearArithmetic: true})
	if err != nil {
		return err
	}
	formula, err := manager.Parse(string(data))
	if err != nil {
		log.Errorf("parse %s: %v", InspectFile, err)
		return err
	}

	variables, err := manager.ExtractVariables(formula)
	if err != nil {
		return err
	}
	withUFs, err := manager.ExtractVariablesAndUFs(formula)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(withUFs))
	for name := range withUFs {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("symbols: %d (%d variables)\n", len(withUFs), len(variables))
	for _, name := range names {
		f := withUFs[name]
		kind := "uf"
		if _, ok := variables[name]; ok {
			kind = "var"
		}
		fmt.Printf("%-4s %-24s %s\n", kind, name, manager.GetFormulaType(f))
	}
	return nil
}
