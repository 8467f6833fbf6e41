// ==============================================================================================
// FILE: repl/repl_sanity_test.go
// ==============================================================================================
// PURPOSE: Sanity checks for the REPL. Ensures robust handling of empty lines, parse errors,
//          and unknown commands without the session dying mid-loop.
// ==============================================================================================

package repl

import (
	"strings"
	"testing"
)

func TestSanityEmptyLinesAreSkipped(t *testing.T) {
	input := "\n\n\n\n1 + 1\n.exit"
	output := runSession(input)
	if !strings.Contains(output, "2") {
		t.Error("REPL choked on empty lines")
	}
}

func TestSanityParseErrorsAreReportedNotFatal(t *testing.T) {
	input := "var x := ;\n1 + 1\n.exit"
	output := runSession(input)
	if !strings.Contains(output, "Parse error") {
		t.Error("REPL did not report the parse error")
	}
	if !strings.Contains(output, "2") {
		t.Error("REPL did not keep accepting input after a parse error")
	}
}

func TestSanityUnknownCommand(t *testing.T) {
	input := ".foobar\n.exit"
	output := runSession(input)
	if !strings.Contains(output, "Unknown command") {
		t.Error("REPL did not catch unknown command")
	}
}

func TestSanityGoodbyeOnExit(t *testing.T) {
	output := runSession(".exit")
	if !strings.Contains(output, "Goodbye") {
		t.Error("REPL did not print a goodbye message on .exit")
	}
}
