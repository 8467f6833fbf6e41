// ==============================================================================================
// FILE: evaluator/builtins.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Function dispatch for named-function calls: a
//          user-defined function from the module, or one of the built-in
//          function library, or rule-set
//          dispatch via apply(). Grounded on the reference's call_function.
// ==============================================================================================

package evaluator

import (
	"sort"

	"xform/ast"
	"xform/node"
	"xform/object"
	"xform/xformerr"
)

// CallFunction dispatches name against user-defined functions first, then
// the built-in library.
func CallFunction(name string, args []object.Sequence, env *object.Environment) (object.Sequence, error) {
	if fn, ok := env.Function(name); ok {
		return callUserFunction(fn, args, env)
	}
	return callBuiltin(name, args, env)
}

// callUserFunction binds positional arguments, then any remaining
// parameters to their default expressions — evaluated in the CALLER's
// environment, not the function's own (there is no "own"
// environment until binding completes, and defaults may reference the
// caller's variables by design).
func callUserFunction(fn *ast.FunctionDef, args []object.Sequence, callerEnv *object.Environment) (object.Sequence, error) {
	bodyEnv := callerEnv
	for i, param := range fn.Params {
		if i < len(args) {
			bodyEnv = bodyEnv.WithVar(param.Name, args[i])
			continue
		}
		if param.Default != nil {
			val, err := Eval(param.Default, callerEnv)
			if err != nil {
				return nil, err
			}
			bodyEnv = bodyEnv.WithVar(param.Name, val)
			continue
		}
		return nil, xformerr.New(xformerr.Arity, "wrong number of arguments")
	}
	return Eval(fn.Body, bodyEnv)
}

func arg(args []object.Sequence, i int) object.Sequence {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// keyFuncOf extracts a FuncRef from an optional key-function argument.
func keyFuncOf(args []object.Sequence, i int) (string, bool) {
	seq := arg(args, i)
	if first, ok := seq.First(); ok {
		if fr, ok := first.(*object.FuncRef); ok {
			return fr.Name, true
		}
	}
	return "", false
}

func keyOf(item object.Item, keyFn string, hasKeyFn bool, env *object.Environment) (string, error) {
	if !hasKeyFn {
		return ToString(object.Single(item)), nil
	}
	res, err := CallFunction(keyFn, []object.Sequence{object.Single(item)}, env)
	if err != nil {
		return "", err
	}
	return ToString(res), nil
}

func callBuiltin(name string, args []object.Sequence, env *object.Environment) (object.Sequence, error) {
	switch name {
	case "string":
		return object.Single(&object.String{Value: ToString(arg(args, 0))}), nil

	case "number":
		n, err := ToNumber(arg(args, 0))
		if err != nil {
			return nil, err
		}
		return object.Single(&object.Number{Value: n}), nil

	case "boolean":
		return object.Single(&object.Boolean{Value: ToBoolean(arg(args, 0))}), nil

	case "typeOf":
		return object.Single(&object.String{Value: typeOf(arg(args, 0))}), nil

	case "name":
		s := ""
		if first, ok := arg(args, 0).First(); ok {
			if ni, ok := first.(*object.NodeItem); ok {
				s = ni.Node.Name
			}
		}
		return object.Single(&object.String{Value: s}), nil

	case "attr":
		key := ToString(arg(args, 1))
		s := ""
		if first, ok := arg(args, 0).First(); ok {
			if ni, ok := first.(*object.NodeItem); ok && ni.Node.Kind == node.Element {
				if v, ok := ni.Node.Attr(key); ok {
					s = v
				}
			}
		}
		return object.Single(&object.String{Value: s}), nil

	case "text":
		return builtinText(args)

	case "children":
		var out object.Sequence
		if first, ok := arg(args, 0).First(); ok {
			if ni, ok := first.(*object.NodeItem); ok {
				for _, c := range ni.Node.Children {
					out = append(out, &object.NodeItem{Node: c})
				}
			}
		}
		return out, nil

	case "elements":
		return builtinElements(args)

	case "copy":
		var out object.Sequence
		if first, ok := arg(args, 0).First(); ok {
			if ni, ok := first.(*object.NodeItem); ok {
				out = object.Single(&object.NodeItem{Node: node.DeepCopy(ni.Node)})
			}
		}
		return out, nil

	case "count":
		return object.Single(&object.Number{Value: float64(len(arg(args, 0)))}), nil

	case "empty":
		return object.Single(&object.Boolean{Value: len(arg(args, 0)) == 0}), nil

	case "distinct":
		seen := map[string]bool{}
		var out object.Sequence
		for _, it := range arg(args, 0) {
			k := ToString(object.Single(it))
			if !seen[k] {
				seen[k] = true
				out = append(out, it)
			}
		}
		return out, nil

	case "sort":
		return builtinSort(args, env)

	case "concat", "seq":
		var out object.Sequence
		for _, a := range args {
			out = append(out, a...)
		}
		return out, nil

	case "head":
		seq := arg(args, 0)
		if len(seq) == 0 {
			return object.Sequence{}, nil
		}
		return object.Single(seq[0]), nil

	case "tail":
		seq := arg(args, 0)
		if len(seq) <= 1 {
			return object.Sequence{}, nil
		}
		return append(object.Sequence{}, seq[1:]...), nil

	case "last":
		seq := arg(args, 0)
		if len(seq) == 0 {
			if l, ok := env.Last(); ok {
				return object.Single(&object.Number{Value: l}), nil
			}
			return object.Sequence{}, nil
		}
		return object.Single(seq[len(seq)-1]), nil

	case "position":
		if p, ok := env.Position(); ok {
			return object.Single(&object.Number{Value: p}), nil
		}
		return object.Sequence{}, nil

	case "index":
		return builtinIndex(args, env)

	case "lookup":
		key := ToString(arg(args, 1))
		if first, ok := arg(args, 0).First(); ok {
			if m, ok := first.(*object.Map); ok {
				if seq, ok := m.Get(key); ok {
					return seq, nil
				}
			}
		}
		return object.Sequence{}, nil

	case "groupBy":
		return builtinGroupBy(args, env)

	case "sum":
		total := 0.0
		for _, it := range arg(args, 0) {
			n, err := ToNumber(object.Single(it))
			if err != nil {
				return nil, err
			}
			total += n
		}
		return object.Single(&object.Number{Value: total}), nil

	case "apply":
		return builtinApply(args, env)
	}

	return nil, xformerr.New(xformerr.UnknownFunction, "unknown function %s", name)
}

func typeOf(seq object.Sequence) string {
	first, ok := seq.First()
	if !ok {
		return "null"
	}
	switch first.(type) {
	case *object.NodeItem:
		return "node"
	case *object.Map:
		return "map"
	case *object.Boolean:
		return "boolean"
	case *object.Number:
		return "number"
	case *object.Null:
		return "null"
	case *object.String:
		return "string"
	case *object.FuncRef:
		return "function"
	}
	return "null"
}

func builtinText(args []object.Sequence) (object.Sequence, error) {
	nodeSeq := arg(args, 0)
	deepSeq := arg(args, 1)
	deep := true
	if deepSeq != nil {
		deep = ToBoolean(deepSeq)
	}
	first, ok := nodeSeq.First()
	if !ok {
		return object.Single(&object.String{Value: ""}), nil
	}
	ni, ok := first.(*object.NodeItem)
	if !ok {
		return object.Single(&object.String{Value: ToString(object.Single(first))}), nil
	}
	if deep {
		return object.Single(&object.String{Value: ni.Node.StringValue()}), nil
	}
	var s string
	for _, c := range ni.Node.Children {
		if c.Kind == node.Text {
			s += c.Value
		}
	}
	return object.Single(&object.String{Value: s}), nil
}

func builtinElements(args []object.Sequence) (object.Sequence, error) {
	nodeSeq := arg(args, 0)
	nameSeq := arg(args, 1)
	first, ok := nodeSeq.First()
	if !ok {
		return object.Sequence{}, nil
	}
	ni, ok := first.(*object.NodeItem)
	if !ok || (ni.Node.Kind != node.Element && ni.Node.Kind != node.Document) {
		return object.Sequence{}, nil
	}
	hasFilter := nameSeq != nil
	filter := ""
	if hasFilter {
		filter = ToString(nameSeq)
	}
	var out object.Sequence
	for _, c := range ni.Node.Children {
		if c.Kind != node.Element {
			continue
		}
		if hasFilter && filter != "" && c.Name != filter {
			continue
		}
		out = append(out, &object.NodeItem{Node: c})
	}
	return out, nil
}

func builtinSort(args []object.Sequence, env *object.Environment) (object.Sequence, error) {
	seq := arg(args, 0)
	keyFn, hasKeyFn := keyFuncOf(args, 1)

	type keyed struct {
		key  string
		item object.Item
	}
	pairs := make([]keyed, len(seq))
	for i, it := range seq {
		k, err := keyOf(it, keyFn, hasKeyFn, env)
		if err != nil {
			return nil, err
		}
		pairs[i] = keyed{key: k, item: it}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	out := make(object.Sequence, len(pairs))
	for i, p := range pairs {
		out[i] = p.item
	}
	return out, nil
}

func builtinIndex(args []object.Sequence, env *object.Environment) (object.Sequence, error) {
	seq := arg(args, 0)
	keyFn, hasKeyFn := keyFuncOf(args, 1)

	m := object.NewMap()
	for _, it := range seq {
		k, err := keyOf(it, keyFn, hasKeyFn, env)
		if err != nil {
			return nil, err
		}
		existing, _ := m.Get(k)
		m.Set(k, append(existing, it))
	}
	return object.Single(m), nil
}

func builtinGroupBy(args []object.Sequence, env *object.Environment) (object.Sequence, error) {
	seq := arg(args, 0)
	keyFn, hasKeyFn := keyFuncOf(args, 1)

	var order []string
	groups := map[string]object.Sequence{}
	for _, it := range seq {
		k, err := keyOf(it, keyFn, hasKeyFn, env)
		if err != nil {
			return nil, err
		}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}

	out := make(object.Sequence, len(order))
	for i, k := range order {
		m := object.NewMap()
		m.Set("key", object.Single(&object.String{Value: k}))
		m.Set("items", groups[k])
		out[i] = m
	}
	return out, nil
}

func builtinApply(args []object.Sequence, env *object.Environment) (object.Sequence, error) {
	seq := arg(args, 0)
	ruleSetName := "main"
	if rs := arg(args, 1); rs != nil {
		if s := ToString(rs); s != "" {
			ruleSetName = s
		}
	}
	rules, _ := env.RuleSet(ruleSetName)

	var out object.Sequence
	for _, item := range seq {
		matched := false
		for _, rule := range rules {
			bindings, ok := MatchPattern(rule.Pattern, item)
			if !ok {
				continue
			}
			matched = true
			ruleEnv := env.WithContext(item)
			for name, val := range bindings {
				ruleEnv = ruleEnv.WithVar(name, val)
			}
			res, err := Eval(rule.Body, ruleEnv)
			if err != nil {
				return nil, err
			}
			out = append(out, res...)
			break
		}
		if !matched {
			return nil, xformerr.New(xformerr.NoMatchingRule, "no matching rule in rule-set %q", ruleSetName)
		}
	}
	return out, nil
}
