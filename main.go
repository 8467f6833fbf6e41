// ==============================================================================================
// FILE: main.go
// ==============================================================================================
// PURPOSE: Thin wrapper supporting a "go run main.go ..." launch habit; cmd/xform provides the
//          same entrypoint under Go's conventional named-binary layout.
// ==============================================================================================

package main

import (
	"os"

	"xform/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
