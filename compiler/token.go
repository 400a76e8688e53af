package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the Lox scanner
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Single-character punctuation
	TokenLeftParen  TokenType = iota // (
	TokenRightParen                  // )
	TokenLeftBrace                   // {
	TokenRightBrace                  // }
	TokenComma                       // ,
	TokenDot                         // .
	TokenMinus                       // -
	TokenPlus                        // +
	TokenSemicolon                   // ;
	TokenSlash                       // /
	TokenStar                        // *

	// One or two character operators
	TokenBang         // !
	TokenBangEqual    // !=
	TokenEqual        // =
	TokenEqualEqual   // ==
	TokenGreater      // >
	TokenGreaterEqual // >=
	TokenLess         // <
	TokenLessEqual    // <=

	// Literals
	TokenIdentifier
	TokenString // payload: content after the opening quote, closing quote included
	TokenNumber

	// Reserved words
	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFor
	TokenFun
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile

	// Special tokens
	TokenError // payload: static message
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenMinus:        "-",
	TokenPlus:         "+",
	TokenSemicolon:    ";",
	TokenSlash:        "/",
	TokenStar:         "*",
	TokenBang:         "!",
	TokenBangEqual:    "!=",
	TokenEqual:        "=",
	TokenEqualEqual:   "==",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenIdentifier:   "IDENTIFIER",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenAnd:          "and",
	TokenClass:        "class",
	TokenElse:         "else",
	TokenFalse:        "false",
	TokenFor:          "for",
	TokenFun:          "fun",
	TokenIf:           "if",
	TokenNil:          "nil",
	TokenOr:           "or",
	TokenPrint:        "print",
	TokenReturn:       "return",
	TokenSuper:        "super",
	TokenThis:         "this",
	TokenTrue:         "true",
	TokenVar:          "var",
	TokenWhile:        "while",
	TokenError:        "ERROR",
	TokenEOF:          "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// IsKeyword reports whether t is one of the reserved words.
func (t TokenType) IsKeyword() bool {
	return t >= TokenAnd && t <= TokenWhile
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	words := make([]string, 0, TokenWhile-TokenAnd+1)
	for t := TokenAnd; t <= TokenWhile; t++ {
		words = append(words, tokenNames[t])
	}
	return words
}

// Static messages carried by error tokens.
const (
	MsgUnterminatedString = "Unterminated string"
	MsgUnknownToken       = "Unknown token"
)

// Token represents a lexical token. Start and Length are byte offsets into
// the scanned source; Line is the scanner's line after the lexeme was consumed.
type Token struct {
	Type    TokenType
	Start   int
	Length  int
	Line    int
	Payload string // only set for TokenString and TokenError
}

// Lexeme returns the source text the token spans.
func (t Token) Lexeme(source string) string {
	end := t.Start + t.Length
	if t.Start < 0 || end > len(source) || t.Start > end {
		return ""
	}
	return source[t.Start:end]
}

// IsError reports whether the token signals a lexical error.
func (t Token) IsError() bool {
	return t.Type == TokenError
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return fmt.Sprintf("EOF@%d", t.Line)
	case TokenError:
		return fmt.Sprintf("ERROR(%s)@%d", t.Payload, t.Line)
	case TokenString:
		if len(t.Payload) > 20 {
			return fmt.Sprintf("STRING(%q...)@%d", t.Payload[:20], t.Line)
		}
		return fmt.Sprintf("STRING(%q)@%d", t.Payload, t.Line)
	}
	return fmt.Sprintf("%s[%d:%d]@%d", t.Type, t.Start, t.Start+t.Length, t.Line)
}
