package compiler

import (
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Scanner: single-pass, maximal-munch tokenizer
// ---------------------------------------------------------------------------

// TokenSource is a pull-based token stream. Each call yields exactly one
// token; once TokenEOF is returned every later call returns TokenEOF again.
type TokenSource interface {
	ScanToken() Token
}

// Scanner tokenizes Lox source text one token at a time. It never mutates
// its source; only start, current and line move.
type Scanner struct {
	source  string
	start   int // offset of the first byte of the current lexeme
	current int // offset of the next byte to read
	line    int // 1-based
}

// NewScanner creates a scanner positioned at the start of source.
func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Line returns the scanner's current line.
func (s *Scanner) Line() int {
	return s.line
}

// byteClass groups bytes by the scanning routine that handles them.
type byteClass uint8

const (
	classOther byteClass = iota
	classWhitespace
	classNewline
	classComment
	classPunct
	classOperator
	classAlpha
	classDigit
	classQuote
)

// commentMarker starts a comment running through the end of the line.
const commentMarker = '#'

var byteClasses = func() [256]byteClass {
	var table [256]byteClass
	for _, c := range []byte(" \r\t") {
		table[c] = classWhitespace
	}
	table['\n'] = classNewline
	table[commentMarker] = classComment
	for c := range punctuation {
		table[c] = classPunct
	}
	for c := range operators {
		table[c] = classOperator
	}
	for c := 'a'; c <= 'z'; c++ {
		table[c] = classAlpha
	}
	for c := 'A'; c <= 'Z'; c++ {
		table[c] = classAlpha
	}
	table['_'] = classAlpha
	for c := '0'; c <= '9'; c++ {
		table[c] = classDigit
	}
	table['"'] = classQuote
	return table
}()

func classify(c byte) byteClass {
	return byteClasses[c]
}

var punctuation = map[byte]TokenType{
	'(': TokenLeftParen,
	')': TokenRightParen,
	'{': TokenLeftBrace,
	'}': TokenRightBrace,
	',': TokenComma,
	'.': TokenDot,
	'-': TokenMinus,
	'+': TokenPlus,
	';': TokenSemicolon,
	'/': TokenSlash,
	'*': TokenStar,
}

// operatorPair holds the kinds for an operator with and without a trailing '='.
type operatorPair struct {
	single   TokenType
	compound TokenType
}

var operators = map[byte]operatorPair{
	'!': {TokenBang, TokenBangEqual},
	'=': {TokenEqual, TokenEqualEqual},
	'<': {TokenLess, TokenLessEqual},
	'>': {TokenGreater, TokenGreaterEqual},
}

// ScanToken consumes the next lexeme and returns its token.
func (s *Scanner) ScanToken() Token {
	s.start = s.current

	for {
		if s.isAtEnd() {
			return s.makeToken(TokenEOF)
		}

		c := s.advance()
		switch classify(c) {
		case classWhitespace:
			s.skipWhitespace()
			continue
		case classNewline:
			s.line++
			s.start = s.current
			continue
		case classComment:
			s.skipComment()
			continue
		case classPunct:
			return s.makeToken(punctuation[c])
		case classOperator:
			return s.operator(c)
		case classAlpha:
			return s.identifier()
		case classDigit:
			return s.number()
		case classQuote:
			return s.stringLiteral()
		default:
			return s.errorToken(MsgUnknownToken)
		}
	}
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

// peek returns the next unread byte, or 0 at end of source.
func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

// match consumes the next byte if it equals expected.
func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) makeToken(typ TokenType) Token {
	return Token{
		Type:   typ,
		Start:  s.start,
		Length: s.current - s.start,
		Line:   s.line,
	}
}

func (s *Scanner) errorToken(message string) Token {
	tok := s.makeToken(TokenError)
	tok.Payload = message
	return tok
}

// skipWhitespace consumes a run of spaces, tabs and carriage returns. The
// next lexeme starts after the run.
func (s *Scanner) skipWhitespace() {
	for !s.isAtEnd() && classify(s.peek()) == classWhitespace {
		s.current++
	}
	s.start = s.current
}

// skipComment consumes everything through the terminating newline.
func (s *Scanner) skipComment() {
	for !s.isAtEnd() {
		if s.advance() == '\n' {
			s.line++
			break
		}
	}
	s.start = s.current
}

func (s *Scanner) operator(c byte) Token {
	op := operators[c]
	if s.match('=') {
		return s.makeToken(op.compound)
	}
	return s.makeToken(op.single)
}

func (s *Scanner) identifier() Token {
	for {
		class := classify(s.peek())
		if class != classAlpha && class != classDigit {
			break
		}
		s.current++
	}
	return s.makeToken(identifierType(s.source[s.start:s.current]))
}

// number consumes digits and decimal points greedily. Malformed literals
// such as "1.2.3" are accepted as a single token.
func (s *Scanner) number() Token {
	for {
		c := s.peek()
		if classify(c) != classDigit && c != '.' {
			break
		}
		s.current++
	}
	return s.makeToken(TokenNumber)
}

// stringLiteral consumes through the closing quote. Embedded newlines are kept in
// the payload and advance the line counter.
func (s *Scanner) stringLiteral() Token {
	for !s.isAtEnd() {
		c := s.advance()
		if c == '"' {
			tok := s.makeToken(TokenString)
			tok.Payload = s.source[s.start+1 : s.current]
			return tok
		}
		if c == '\n' {
			s.line++
		}
	}
	return s.errorToken(MsgUnterminatedString)
}

// Tokens scans source to completion and returns every token, the trailing
// TokenEOF included.
func Tokens(source string) []Token {
	s := NewScanner(source)
	var toks []Token
	for {
		tok := s.ScanToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

// Dump writes one line per token of source to w and reports how many error
// tokens were seen.
func Dump(w io.Writer, source string) (int, error) {
	errs := 0
	for _, tok := range Tokens(source) {
		if tok.IsError() {
			errs++
		}
		var err error
		switch tok.Type {
		case TokenEOF, TokenError, TokenString:
			_, err = fmt.Fprintf(w, "%4d %s\n", tok.Line, tok)
		default:
			_, err = fmt.Fprintf(w, "%4d %-12s %q\n", tok.Line, tok.Type, tok.Lexeme(source))
		}
		if err != nil {
			return errs, err
		}
	}
	return errs, nil
}
