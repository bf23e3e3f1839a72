// SPDX-License-Identifier: MPL-2.0

package expr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// TokenString is a quoted string literal with escapes removed.
	TokenString TokenKind = iota
	// TokenNumber is an integer or decimal literal, optionally negative.
	TokenNumber
	// TokenIdentifier is a bare word that is not a logical keyword.
	TokenIdentifier
	// TokenOperator is a comparison operator.
	TokenOperator
	// TokenLogical is AND, OR, NOT or one of their symbolic forms.
	TokenLogical
	// TokenLParen is "(".
	TokenLParen
	// TokenRParen is ")".
	TokenRParen
	// TokenEOF terminates every token stream.
	TokenEOF
)

// comparisonOperators is ordered longest first so matching is greedy.
var comparisonOperators = []string{"==", "!=", "<=", ">=", "=~", "!~", "<", ">"}

type (
	// TokenKind classifies a lexical token.
	TokenKind int

	// Token is one lexical unit with its starting byte offset.
	Token struct {
		Kind     TokenKind
		Value    string
		Position int
	}

	lexer struct {
		src    string
		pos    int
		tokens []Token
	}
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenOperator:
		return "OPERATOR"
	case TokenLogical:
		return "LOGICAL"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Tokenize splits src into tokens. The last token is always TokenEOF.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{src: src}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) run() error {
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			break
		}

		c := l.src[l.pos]
		switch {
		case c == '"' || c == '\'':
			if err := l.readString(c); err != nil {
				return err
			}
		case isDigit(c) || (c == '-' && isDigit(l.peek(1))):
			l.readNumber()
		case c == '(':
			l.emit(TokenLParen, "(", l.pos)
			l.pos++
		case c == ')':
			l.emit(TokenRParen, ")", l.pos)
			l.pos++
		case l.readComparison():
		case strings.HasPrefix(l.src[l.pos:], "&&") || strings.HasPrefix(l.src[l.pos:], "||"):
			l.emit(TokenLogical, l.src[l.pos:l.pos+2], l.pos)
			l.pos += 2
		case c == '!':
			l.emit(TokenLogical, "!", l.pos)
			l.pos++
		case c == '=':
			return lexError(l.pos, ErrUnexpectedCharacter, "unknown operator '='")
		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
			if r == '_' || unicode.IsLetter(r) {
				l.readWord()
				continue
			}
			return lexError(l.pos, ErrUnexpectedCharacter, "unexpected character '%c'", r)
		}
	}

	l.emit(TokenEOF, "", l.pos)
	return nil
}

func (l *lexer) emit(kind TokenKind, value string, pos int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Value: value, Position: pos})
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) readString(quote byte) error {
	start := l.pos
	l.pos++

	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == quote:
			l.pos++
			l.emit(TokenString, b.String(), start)
			return nil
		case c == '\\' && (l.peek(1) == quote || l.peek(1) == '\\'):
			b.WriteByte(l.src[l.pos+1])
			l.pos += 2
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return lexError(start, ErrUnterminatedString, "unterminated string literal")
}

// readNumber consumes an optional '-', digits and at most one '.'.
func (l *lexer) readNumber() {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}

	seenDot := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '.' && !seenDot {
			seenDot = true
		} else if !isDigit(c) {
			break
		}
		l.pos++
	}
	l.emit(TokenNumber, l.src[start:l.pos], start)
}

func (l *lexer) readComparison() bool {
	rest := l.src[l.pos:]
	for _, op := range comparisonOperators {
		if strings.HasPrefix(rest, op) {
			l.emit(TokenOperator, op, l.pos)
			l.pos += len(op)
			return true
		}
	}
	return false
}

// readWord consumes letters, digits and underscores. AND, OR and NOT in any
// case become logical tokens normalized to upper case.
func (l *lexer) readWord() {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
	}

	word := l.src[start:l.pos]
	switch upper := strings.ToUpper(word); upper {
	case "AND", "OR", "NOT":
		l.emit(TokenLogical, upper, start)
	default:
		l.emit(TokenIdentifier, word, start)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
