// ==============================================================================================
// FILE: cli/cli.go
// ==============================================================================================
// PACKAGE: cli
// PURPOSE: The CLI entrypoint logic, shared by the root main.go
//          (teacher's "go run main.go ..." habit) and cmd/xform (Go's conventional named-binary
//          layout):
//            xform <input-file> <transform-file>
//            xform -debug <input-file> <transform-file>
//            xform repl <input-file>
// ==============================================================================================

package cli

import (
	"fmt"
	"os"

	"xform/evaluator"
	"xform/lexer"
	"xform/markup"
	"xform/parser"
	"xform/repl"
	"xform/token"
)

// Run executes the CLI with the given arguments, writing normal output to out
// and diagnostics to errOut. Returns the process exit code.
func Run(args []string, out, errOut *os.File) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xform [-debug] <input-file> <transform-file>")
		fmt.Fprintln(errOut, "       xform repl <input-file>")
		return 1
	}

	if args[0] == "repl" {
		if len(args) < 2 {
			fmt.Fprintln(errOut, "usage: xform repl <input-file>")
			return 1
		}
		return runRepl(args[1], out, errOut)
	}

	debug := false
	if args[0] == "-debug" {
		debug = true
		args = args[1:]
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "usage: xform [-debug] <input-file> <transform-file>")
		return 1
	}

	return runTransform(args[0], args[1], debug, out, errOut)
}

func runTransform(inputPath, transformPath string, debug bool, out, errOut *os.File) int {
	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(errOut, "reading %s: %s\n", inputPath, err)
		return 1
	}
	transformBytes, err := os.ReadFile(transformPath)
	if err != nil {
		fmt.Fprintf(errOut, "reading %s: %s\n", transformPath, err)
		return 1
	}

	doc, err := markup.Read(string(inputBytes))
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return 1
	}

	l := lexer.New(string(transformBytes))
	if debug {
		dumpTokens(errOut, string(transformBytes))
	}

	module, err := parser.ParseModule(l)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return 1
	}
	if debug && module.Expr != nil {
		fmt.Fprintf(errOut, "AST: %s\n", module.Expr)
	}

	seq, err := evaluator.EvalModule(module, doc)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return 1
	}

	fmt.Fprint(out, markup.WriteSequence(seq))
	return 0
}

func runRepl(inputPath string, out, errOut *os.File) int {
	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(errOut, "reading %s: %s\n", inputPath, err)
		return 1
	}
	doc, err := markup.Read(string(inputBytes))
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return 1
	}
	repl.Start(os.Stdin, out, doc)
	return 0
}

func dumpTokens(errOut *os.File, src string) {
	fmt.Fprintln(errOut, "--- tokens ---")
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		fmt.Fprintf(errOut, "%-10s %q\n", tok.Kind, tok.Literal)
		if tok.Kind == token.EOF {
			break
		}
	}
}
