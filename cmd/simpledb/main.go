// Command simpledb is an in-memory key-value store with nested transactions.
package main

import (
	"os"

	"github.com/roach88/simpledb/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.ReportError(os.Stderr, err))
	}
}
