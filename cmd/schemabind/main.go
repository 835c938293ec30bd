// Command schemabind loads YAML documents through schema-driven binding and
// runs the binder's file-loading scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/schemabind/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
