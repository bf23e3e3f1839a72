// SPDX-License-Identifier: MPL-2.0

package expr

import (
	"fmt"
	"strconv"
)

// Operators recognized by the parser.
const (
	OpEq       Operator = "=="
	OpNe       Operator = "!="
	OpLt       Operator = "<"
	OpGt       Operator = ">"
	OpLe       Operator = "<="
	OpGe       Operator = ">="
	OpMatch    Operator = "=~"
	OpNotMatch Operator = "!~"
	OpAnd      Operator = "AND"
	OpOr       Operator = "OR"
	OpNot      Operator = "NOT"
)

type (
	// Operator is a normalized operator. The symbolic logical forms
	// && || ! are folded into OpAnd, OpOr and OpNot by the parser.
	Operator string

	// Node is a parsed expression. The set of implementations is closed:
	// *Literal, *Identifier, *Binary and *Unary.
	Node interface {
		fmt.Stringer
		node()
	}

	// Literal is a constant: string, int64, float64 or bool.
	Literal struct {
		Value any
	}

	// Identifier is a reference to a context key.
	Identifier struct {
		Name string
	}

	// Binary is a logical or comparison operation.
	Binary struct {
		Op    Operator
		Left  Node
		Right Node
	}

	// Unary is a logical negation.
	Unary struct {
		Op      Operator
		Operand Node
	}
)

func (*Literal) node()    {}
func (*Identifier) node() {}
func (*Binary) node()     {}
func (*Unary) node()      {}

func (n *Literal) String() string {
	if s, ok := n.Value.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(n.Value)
}

func (n *Identifier) String() string { return n.Name }

func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

func (n *Unary) String() string {
	return fmt.Sprintf("(%s %s)", n.Op, n.Operand)
}

// IsLogical reports whether op is AND or OR.
func (op Operator) IsLogical() bool { return op == OpAnd || op == OpOr }
