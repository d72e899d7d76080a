// Command sqlmongo translates SQL SELECT statements into MongoDB queries.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sqlmongo/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
