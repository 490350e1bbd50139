package ast

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"src.tarn.sh/pkg/diag"
)

// FromTree converts a generic tree, as produced by decoding a JSON or YAML
// document into an any, into a Node. The name is used in error messages.
//
// Records carrying an "expression" field become File nodes regardless of
// their kind. Records of unknown kinds become Unknown nodes. Any other
// structural problem is reported as a *diag.Error.
func FromTree(name string, tree any) (Node, error) {
	c := converter{name}
	return c.node(tree, "$")
}

type converter struct {
	name string
}

type record map[string]any

func (c converter) errorf(path, format string, args ...any) error {
	return &diag.Error{
		Type:    "load error",
		Message: path + ": " + fmt.Sprintf(format, args...),
		Context: diag.Context{Name: c.name, Ranging: diag.UnknownRanging},
	}
}

func (c converter) record(v any, path string) (record, error) {
	switch v := v.(type) {
	case map[string]any:
		return v, nil
	case map[any]any:
		r := make(record, len(v))
		for k, v := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, c.errorf(path, "non-string key %v", k)
			}
			r[ks] = v
		}
		return r, nil
	default:
		return nil, c.errorf(path, "want a record, got %s", describe(v))
	}
}

func (c converter) node(v any, path string) (Node, error) {
	r, err := c.record(v, path)
	if err != nil {
		return nil, err
	}
	loc, err := c.location(r, path)
	if err != nil {
		return nil, err
	}
	if expr, ok := r["expression"]; ok {
		e, err := c.node(expr, path+".expression")
		if err != nil {
			return nil, err
		}
		name, _ := r["name"].(string)
		return &File{Name: name, Expression: e, Location: loc}, nil
	}

	kind, ok := r["kind"].(string)
	if !ok {
		return nil, c.errorf(path, "missing kind")
	}
	switch kind {
	case "Print":
		value, err := c.field(r, path, "value")
		return &Print{Value: value, Location: loc}, err
	case "First":
		value, err := c.field(r, path, "value")
		return &First{Value: value, Location: loc}, err
	case "Second":
		value, err := c.field(r, path, "value")
		return &Second{Value: value, Location: loc}, err
	case "Let":
		name, err := c.parameter(r["name"], path+".name")
		if err != nil {
			return nil, err
		}
		value, err := c.field(r, path, "value")
		if err != nil {
			return nil, err
		}
		next, err := c.optionalField(r, path, "next")
		return &Let{Name: name, Value: value, Next: next, Location: loc}, err
	case "Binary":
		opName, ok := r["op"].(string)
		if !ok {
			return nil, c.errorf(path+".op", "want an operator name, got %s", describe(r["op"]))
		}
		op, ok := ParseBinaryOp(opName)
		if !ok {
			return nil, c.errorf(path+".op", "unknown operator %q", opName)
		}
		lhs, err := c.field(r, path, "lhs")
		if err != nil {
			return nil, err
		}
		rhs, err := c.field(r, path, "rhs")
		return &Binary{Op: op, LHS: lhs, RHS: rhs, Location: loc}, err
	case "If":
		cond, err := c.field(r, path, "condition")
		if err != nil {
			return nil, err
		}
		then, err := c.field(r, path, "then")
		if err != nil {
			return nil, err
		}
		otherwise, err := c.field(r, path, "otherwise")
		return &If{Condition: cond, Then: then, Otherwise: otherwise, Location: loc}, err
	case "Var":
		text, ok := r["text"].(string)
		if !ok {
			return nil, c.errorf(path+".text", "want a name, got %s", describe(r["text"]))
		}
		return &Var{Text: text, Location: loc}, nil
	case "Str":
		s, ok := scalarString(r["value"])
		if !ok {
			return nil, c.errorf(path+".value", "want a scalar, got %s", describe(r["value"]))
		}
		return &Str{Value: s, Location: loc}, nil
	case "Int":
		i, ok := toInt(r["value"])
		if !ok {
			return nil, c.errorf(path+".value", "want an integer, got %s", describe(r["value"]))
		}
		return &Int{Value: i, Location: loc}, nil
	case "Bool":
		b, ok := toBool(r["value"])
		if !ok {
			return nil, c.errorf(path+".value", "want a boolean, got %s", describe(r["value"]))
		}
		return &Bool{Value: b, Location: loc}, nil
	case "Tuple":
		first, err := c.field(r, path, "first")
		if err != nil {
			return nil, err
		}
		second, err := c.field(r, path, "second")
		return &Tuple{First: first, Second: second, Location: loc}, err
	case "Function":
		list, ok := r["parameters"].([]any)
		if !ok && r["parameters"] != nil {
			return nil, c.errorf(path+".parameters", "want a list, got %s", describe(r["parameters"]))
		}
		params := make([]Parameter, len(list))
		for i, p := range list {
			params[i], err = c.parameter(p, fmt.Sprintf("%s.parameters[%d]", path, i))
			if err != nil {
				return nil, err
			}
		}
		body, err := c.field(r, path, "value")
		return &Function{Parameters: params, Value: body, Location: loc}, err
	case "Call":
		callee, err := c.field(r, path, "callee")
		if err != nil {
			return nil, err
		}
		list, ok := r["arguments"].([]any)
		if !ok && r["arguments"] != nil {
			return nil, c.errorf(path+".arguments", "want a list, got %s", describe(r["arguments"]))
		}
		args := make([]Node, len(list))
		for i, a := range list {
			args[i], err = c.node(a, fmt.Sprintf("%s.arguments[%d]", path, i))
			if err != nil {
				return nil, err
			}
		}
		return &Call{Callee: callee, Arguments: args, Location: loc}, nil
	default:
		return &Unknown{Kind: kind, Location: loc}, nil
	}
}

func (c converter) field(r record, path, key string) (Node, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, c.errorf(path, "missing field %s", key)
	}
	return c.node(v, path+"."+key)
}

func (c converter) optionalField(r record, path, key string) (Node, error) {
	if v, ok := r[key]; ok && v != nil {
		return c.node(v, path+"."+key)
	}
	return nil, nil
}

func (c converter) parameter(v any, path string) (Parameter, error) {
	if s, ok := v.(string); ok {
		return Parameter{Text: s, Location: NoLocation}, nil
	}
	r, err := c.record(v, path)
	if err != nil {
		return Parameter{}, err
	}
	text, ok := r["text"].(string)
	if !ok {
		return Parameter{}, c.errorf(path+".text", "want a name, got %s", describe(r["text"]))
	}
	loc, err := c.location(r, path)
	return Parameter{Text: text, Location: loc}, err
}

func (c converter) location(r record, path string) (Location, error) {
	v, ok := r["location"]
	if !ok || v == nil {
		return NoLocation, nil
	}
	lr, err := c.record(v, path+".location")
	if err != nil {
		return Location{}, err
	}
	start, ok1 := toInt(lr["start"])
	end, ok2 := toInt(lr["end"])
	if !ok1 || !ok2 {
		return Location{}, c.errorf(path+".location", "start and end must be integers")
	}
	filename, _ := lr["filename"].(string)
	return Location{Start: int(start), End: int(end), Filename: filename}, nil
}

func toInt(v any) (int64, bool) {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		return floatToInt(v)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toBool(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(v)
		return b, err == nil
	default:
		return false, false
	}
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	case int, int64, uint64, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case []any:
		return "a list"
	case map[string]any, map[any]any:
		return "a record"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}
