// SPDX-License-Identifier: MPL-2.0

package expr

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{`a == "b"`, `(a == "b")`},
		{"a OR b AND c", "(a OR (b AND c))"},
		{"a && b || c && d", "((a AND b) OR (c AND d))"},
		{"NOT a AND b", "((NOT a) AND b)"},
		{"!!a", "(NOT (NOT a))"},
		{"not x == 1", "(NOT (x == 1))"},
		{"(a OR b) AND c", "((a OR b) AND c)"},
		{"TRUE or False", "(true OR false)"},
		{"x >= 2.5", "(x >= 2.5)"},
		{"  padded  ", "padded"},
		{"v =~ '^v[0-9]+'", `(v =~ "^v[0-9]+")`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			node, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := node.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumberLiterals(t *testing.T) {
	t.Parallel()

	node, err := Parse("-42")
	if err != nil {
		t.Fatal(err)
	}
	if lit, ok := node.(*Literal); !ok || lit.Value != int64(-42) {
		t.Errorf("Parse(-42) = %#v, want int64 literal", node)
	}

	node, err = Parse("1.5")
	if err != nil {
		t.Fatal(err)
	}
	if lit, ok := node.(*Literal); !ok || lit.Value != 1.5 {
		t.Errorf("Parse(1.5) = %#v, want float64 literal", node)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrEmptyExpression},
		{name: "blank", input: "   ", wantErr: ErrEmptyExpression},
		{name: "dangling comparison", input: "a ==", wantErr: ErrUnexpectedToken},
		{name: "dangling and", input: "a AND", wantErr: ErrUnexpectedToken},
		{name: "unmatched paren", input: "(a OR b", wantErr: ErrUnexpectedToken},
		{name: "stray close paren", input: "a)", wantErr: ErrUnexpectedToken},
		{name: "chained comparison", input: "1 < 2 < 3", wantErr: ErrUnexpectedToken},
		{name: "two operands", input: "a b", wantErr: ErrUnexpectedToken},
		{name: "operator first", input: "== a", wantErr: ErrUnexpectedToken},
		{name: "lex error surfaces", input: "a # b", wantErr: ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if !errors.Is(err, ErrExpression) {
				t.Errorf("Parse(%q) error does not match ErrExpression", tt.input)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := Parse("a == b c")
	var exprErr *Error
	if !errors.As(err, &exprErr) {
		t.Fatalf("Parse() error = %v, want *Error", err)
	}
	if exprErr.Position != 7 || exprErr.Stage != StageParse {
		t.Errorf("error = %+v, want parse stage at position 7", exprErr)
	}
	if want := "expression parse failed: unexpected token 'c' at position 7"; exprErr.Error() != want {
		t.Errorf("Error() = %q, want %q", exprErr.Error(), want)
	}
}
