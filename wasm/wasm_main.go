// ==============================================================================================
// FILE: wasm/wasm_main.go
// BUILD: GOOS=js GOARCH=wasm go build -o main.wasm wasm/wasm_main.go
// ==============================================================================================
// PURPOSE: Browser bridge. Runs an XForm transform against an in-memory document and returns
//          the serialized result or a structured error via a single js.FuncOf entrypoint.
// ==============================================================================================
package main

import (
	"fmt"
	"syscall/js"

	"xform/evaluator"
	"xform/lexer"
	"xform/markup"
	"xform/parser"
)

func main() {
	c := make(chan struct{}, 0)

	js.Global().Set("runXForm", js.FuncOf(runXForm))

	fmt.Println("XForm WASM engine loaded.")
	<-c
}

// runXForm is the bridge between JS and Go: runXForm(inputXML, transformSource).
func runXForm(this js.Value, p []js.Value) interface{} {
	if len(p) < 2 {
		return map[string]interface{}{
			"error": []interface{}{"runXForm requires (inputXML, transformSource)"},
		}
	}
	inputXML := p[0].String()
	transformSrc := p[1].String()

	doc, err := markup.Read(inputXML)
	if err != nil {
		return map[string]interface{}{
			"error": []interface{}{err.Error()},
		}
	}

	module, err := parser.ParseModule(lexer.New(transformSrc))
	if err != nil {
		return map[string]interface{}{
			"error": []interface{}{"PARSE ERROR: " + err.Error()},
		}
	}

	seq, err := evaluator.EvalModule(module, doc)
	if err != nil {
		return map[string]interface{}{
			"error": []interface{}{err.Error()},
		}
	}

	return map[string]interface{}{
		"result": markup.WriteSequence(seq),
	}
}
