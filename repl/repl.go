// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface. Loads one document once, then folds each input
//          line into a growing in-memory module (a var/def/rule declaration, or a bare body
//          expression) re-evaluated against the loaded document, so declarations persist across
//          lines the way a session's variable store would.
// ==============================================================================================

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"xform/ast"
	"xform/evaluator"
	"xform/lexer"
	"xform/markup"
	"xform/node"
	"xform/parser"
	"xform/token"
)

// ----------------------------------------------------------------------------
// UI CONSTANTS & CONFIGURATION
// ----------------------------------------------------------------------------

const (
	PROMPT = "xf> "
	LOGO   = `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃ __  ______                 ____                   ┃
┃ \ \/ / ___|___  _ __ _ __  |___ \                  ┃
┃  \  / |   / _ \| '__| '_ \   __) |                 ┃
┃  /  \ |__| (_) | |  | | | | / __/                  ┃
┃ /_/\_\____\___/|_|  |_| |_||_____|                 ┃
┃                                                    ┃
┃ XForm 2.0 tree-transformation engine               ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`
)

// ANSI color codes for terminal output.
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

// ----------------------------------------------------------------------------
// REPL LOGIC
// ----------------------------------------------------------------------------

// Start launches the Read-Eval-Print Loop against doc. It listens to in,
// evaluates lines, and writes results to out. The accumulated module persists
// across lines so a var/def/rule declared on one line is visible on the next.
func Start(in io.Reader, out io.Writer, doc *node.Node) {
	scanner := bufio.NewScanner(in)
	module := &ast.Module{Functions: map[string]*ast.FunctionDef{}, Rules: map[string][]*ast.RuleDef{}}
	debugMode := false

	fmt.Fprint(out, LOGO)
	printHelp(out)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			switch line {
			case ".exit":
				fmt.Fprintln(out, Yellow+"Goodbye!"+Reset)
				return
			case ".clear":
				module = &ast.Module{Functions: map[string]*ast.FunctionDef{}, Rules: map[string][]*ast.RuleDef{}}
				fmt.Fprintln(out, Green+"Accumulated module cleared (document kept)."+Reset)
				continue
			case ".debug":
				debugMode = !debugMode
				status := "DISABLED"
				if debugMode {
					status = "ENABLED"
				}
				fmt.Fprintf(out, Gray+"Debug mode %s\n"+Reset, status)
				continue
			case ".help":
				printHelp(out)
				continue
			default:
				fmt.Fprintf(out, Red+"Unknown command: %s. Type .help for info.\n"+Reset, line)
				continue
			}
		}

		if debugMode {
			printTokens(out, line)
		}

		parsed, err := parser.ParseModule(lexer.New(line))
		if err != nil {
			fmt.Fprintf(out, Red+Bold+"Parse error: "+Reset+Red+"%s\n"+Reset, err)
			continue
		}

		merged := mergeModule(module, parsed)

		if debugMode && parsed.Expr != nil {
			fmt.Fprintf(out, Gray+"AST: %s\n"+Reset, parsed.Expr)
		}

		if parsed.Expr == nil {
			module = merged
			fmt.Fprintln(out, Green+"ok"+Reset)
			continue
		}

		merged.Expr = parsed.Expr
		seq, err := evaluator.EvalModule(merged, doc)
		merged.Expr = nil
		if err != nil {
			fmt.Fprintf(out, Red+Bold+"Error: "+Reset+Red+"%s\n"+Reset, err)
			continue
		}
		module = merged
		fmt.Fprintf(out, Yellow+"%s\n"+Reset, markup.WriteSequence(seq))
	}
}

// mergeModule folds incoming's declarations into base, returning a new
// Module (base is never mutated in place, consistent with the evaluator's
// own copy-on-extend discipline for Environment).
func mergeModule(base, incoming *ast.Module) *ast.Module {
	merged := &ast.Module{
		Namespaces: map[string]string{},
		Functions:  map[string]*ast.FunctionDef{},
		Rules:      map[string][]*ast.RuleDef{},
	}
	for k, v := range base.Namespaces {
		merged.Namespaces[k] = v
	}
	for k, v := range incoming.Namespaces {
		merged.Namespaces[k] = v
	}
	merged.Imports = append(append([]ast.Import{}, base.Imports...), incoming.Imports...)
	merged.Vars = append(append([]ast.VarDecl{}, base.Vars...), incoming.Vars...)
	for k, v := range base.Functions {
		merged.Functions[k] = v
	}
	for k, v := range incoming.Functions {
		merged.Functions[k] = v
	}
	for k, v := range base.Rules {
		merged.Rules[k] = v
	}
	for k, v := range incoming.Rules {
		merged.Rules[k] = append(merged.Rules[k], v...)
	}
	return merged
}

// ----------------------------------------------------------------------------
// HELPER FUNCTIONS
// ----------------------------------------------------------------------------

func printHelp(out io.Writer) {
	fmt.Fprintln(out, Gray+"Commands:")
	fmt.Fprintln(out, "  .exit   Quit the REPL")
	fmt.Fprintln(out, "  .clear  Reset the accumulated module (keeps the loaded document)")
	fmt.Fprintln(out, "  .debug  Toggle verbose token/AST output")
	fmt.Fprintln(out, "  .help   Show this message"+Reset)
	fmt.Fprintln(out)
}

func printTokens(out io.Writer, line string) {
	fmt.Fprintln(out, Gray+"┌── [ TOKENS ] ──────────────────────────────────────────┐"+Reset)
	l := lexer.New(line)
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		fmt.Fprintf(out, "│ %-10s : %s\n", tok.Kind, tok.Literal)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}
