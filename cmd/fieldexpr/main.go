// Command fieldexpr evaluates and integrates field expressions defined in Starlark scripts.
package main

import (
	"os"

	"github.com/robbyt/go-fieldexpr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
