// SPDX-License-Identifier: MPL-2.0

package expr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Evaluate parses text and evaluates it against ctx, returning the
// truthiness of the result. Context values may be strings, numbers or bools.
func Evaluate(text string, ctx map[string]any) (bool, error) {
	root, err := Parse(text)
	if err != nil {
		return false, err
	}
	value, err := Eval(root, ctx)
	if err != nil {
		return false, err
	}
	return Truthy(value), nil
}

// Eval evaluates a parsed node. Logical operators short-circuit: the right
// operand of AND is only evaluated when the left is truthy, and of OR only
// when the left is falsy.
func Eval(n Node, ctx map[string]any) (any, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil

	case *Identifier:
		value, ok := ctx[n.Name]
		if !ok {
			return nil, evalError(ErrUndefinedVariable, "undefined variable: %s", n.Name)
		}
		return value, nil

	case *Unary:
		operand, err := Eval(n.Operand, ctx)
		if err != nil {
			return nil, err
		}
		if n.Op != OpNot {
			return nil, evalError(nil, "unknown unary operator: %s", n.Op)
		}
		return !Truthy(operand), nil

	case *Binary:
		return evalBinary(n, ctx)

	default:
		return nil, evalError(nil, "unsupported node %T", n)
	}
}

func evalBinary(n *Binary, ctx map[string]any) (any, error) {
	left, err := Eval(n.Left, ctx)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case OpOr:
		if Truthy(left) {
			return true, nil
		}
		return evalTruthy(n.Right, ctx)
	case OpAnd:
		if !Truthy(left) {
			return false, nil
		}
		return evalTruthy(n.Right, ctx)
	}

	right, err := Eval(n.Right, ctx)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return compare(n.Op, left, right), nil
	case OpMatch:
		return match(left, right)
	case OpNotMatch:
		matched, err := match(left, right)
		return !matched, err
	default:
		return nil, evalError(nil, "unknown operator: %s", n.Op)
	}
}

func evalTruthy(n Node, ctx map[string]any) (any, error) {
	value, err := Eval(n, ctx)
	if err != nil {
		return nil, err
	}
	return Truthy(value), nil
}

// Truthy reports the boolean meaning of a value. Strings are true when they
// are one of true, 1, yes, on (any case); numbers when nonzero.
func Truthy(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	case nil:
		return false
	}
	if f, ok := numeric(v); ok {
		return f != 0
	}
	return true
}

// compare applies a comparison operator with the coercion rules of the
// language: a bool facing a string is compared as "true"/"false"; two
// operands that both read as numbers compare numerically; two strings
// compare lexically; anything else compares by string form.
func compare(op Operator, left, right any) bool {
	if lb, ok := left.(bool); ok {
		if rs, ok := right.(string); ok {
			return ordered(op, strconv.FormatBool(lb), rs)
		}
	}
	if rb, ok := right.(bool); ok {
		if ls, ok := left.(string); ok {
			return ordered(op, ls, strconv.FormatBool(rb))
		}
	}

	if ln, ok := asNumber(left); ok {
		if rn, ok := asNumber(right); ok {
			return ordered(op, ln, rn)
		}
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	if lok && rok {
		return ordered(op, ls, rs)
	}

	// Mixed kinds are never equal; ordering falls back to string form.
	switch op {
	case OpEq:
		return false
	case OpNe:
		return true
	}
	return ordered(op, render(left), render(right))
}

func ordered[T string | float64](op Operator, a, b T) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpGt:
		return a > b
	case OpLe:
		return a <= b
	case OpGe:
		return a >= b
	}
	return false
}

func match(text, pattern any) (bool, error) {
	re, err := regexp.Compile(render(pattern))
	if err != nil {
		return false, evalError(ErrInvalidPattern, "invalid regex pattern '%s': %v", render(pattern), err)
	}
	return re.MatchString(render(text)), nil
}

// asNumber converts numbers, bools and numeric strings to float64.
func asNumber(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	return numeric(v)
}

func numeric(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func render(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
