// SPDX-License-Identifier: MPL-2.0

// Package expr implements the boolean condition language used by injector
// `when` clauses.
//
// The grammar, lowest precedence first:
//
//	or         = and { ("OR" | "||") and }
//	and        = not { ("AND" | "&&") not }
//	not        = ("NOT" | "!") not | comparison
//	comparison = primary [ op primary ]
//	primary    = STRING | NUMBER | IDENT | "(" or ")"
//	op         = "==" | "!=" | "<" | ">" | "<=" | ">=" | "=~" | "!~"
//
// Logical keywords are case-insensitive, as are the boolean literals true and
// false. Comparisons do not chain. Evaluation short-circuits AND and OR, so an
// undefined identifier on the side that is never reached is not an error.
//
// Every lex, parse and evaluation failure is reported as an *Error that
// matches ErrExpression with errors.Is. EvaluateLegacy is the minimal
// evaluator callers fall back to when Evaluate fails.
package expr
