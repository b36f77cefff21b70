// Command vcomp compensates query trees for booleans stored through value
// converters.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/vcomp/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
