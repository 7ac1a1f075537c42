// Package main is the entry point for worklog-sync CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/worklog-sync/cmd/worklog-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
