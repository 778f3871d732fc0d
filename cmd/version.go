package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set through -ldflags at build time.
var (
	BuildVersion = "dev"
	BuildCommit  string
	BuildTime    string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "show build information",
	Long:  ``,
	Run: func(*cobra.Command, []string) {
		fmt.Printf("%-10s %s\n", "version", BuildVersion)
		fmt.Printf("%-10s %s\n", "commit", BuildCommit)
		fmt.Printf("%-10s %s\n", "built", BuildTime)
		fmt.Printf("%-10s %s %s/%s\n", "go", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}
