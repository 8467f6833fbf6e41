// ==============================================================================================
// FILE: cmd/xform/main.go
// ==============================================================================================
// PURPOSE: Named-binary entrypoint per Go's conventional cmd/ layout; delegates to cli.Run.
// ==============================================================================================

package main

import (
	"os"

	"xform/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
