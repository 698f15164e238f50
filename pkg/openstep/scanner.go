package openstep

import (
	"fmt"
	"strings"
)

// Position locates a byte in the source text. Offset is 0-based; Line
// and Col are 1-based.
type Position struct {
	Offset int
	Line   int
	Col    int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// SyntaxError describes a grammar violation. It carries the structured
// fields callers need to report or relay the failure: a message, the
// token kinds that would have been accepted, the offending text, and
// the source range it covers.
type SyntaxError struct {
	Message  string
	Expected []string
	Found    string
	Pos      Position
	End      Position
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("line %s: %s", e.Pos, e.Message)
	if len(e.Expected) > 0 {
		msg += fmt.Sprintf(" (expected %s, found %q)", strings.Join(e.Expected, " or "), e.Found)
	}
	return msg
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokComment
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokEquals
	tokSemi
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string"
	case tokComment:
		return "comment"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokEquals:
		return "'='"
	case tokSemi:
		return "';'"
	case tokComma:
		return "','"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	text string // decoded content for strings, inner text for comments
	pos  Position
	end  Position
}

// scanner tokenizes property-list source. The first line comment in
// the file, if it precedes every token, is captured as the document
// head comment rather than emitted as a token.
type scanner struct {
	src         []byte
	off         int
	line        int
	col         int
	headComment string
	sawToken    bool
}

func newScanner(src []byte) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) pos() Position {
	return Position{Offset: s.off, Line: s.line, Col: s.col}
}

func (s *scanner) advance() byte {
	c := s.src[s.off]
	s.off++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *scanner) peek() byte {
	if s.off >= len(s.src) {
		return 0
	}
	return s.src[s.off]
}

func (s *scanner) peekAt(n int) byte {
	if s.off+n >= len(s.src) {
		return 0
	}
	return s.src[s.off+n]
}

// next returns the next token. Line comments are consumed here: the
// head marker is stashed, all others are discarded.
func (s *scanner) next() (token, *SyntaxError) {
	for {
		for s.off < len(s.src) && isSpace(s.peek()) {
			s.advance()
		}
		if s.off >= len(s.src) {
			p := s.pos()
			return token{kind: tokEOF, pos: p, end: p}, nil
		}

		if s.peek() == '/' && s.peekAt(1) == '/' {
			start := s.off
			for s.off < len(s.src) && s.peek() != '\n' {
				s.advance()
			}
			if !s.sawToken && s.headComment == "" {
				text := string(s.src[start:s.off])
				s.headComment = strings.TrimSpace(strings.TrimPrefix(text, "//"))
			}
			continue
		}
		break
	}

	start := s.pos()
	s.sawToken = true

	switch c := s.peek(); {
	case c == '{':
		s.advance()
		return token{kind: tokLBrace, text: "{", pos: start, end: s.pos()}, nil
	case c == '}':
		s.advance()
		return token{kind: tokRBrace, text: "}", pos: start, end: s.pos()}, nil
	case c == '(':
		s.advance()
		return token{kind: tokLParen, text: "(", pos: start, end: s.pos()}, nil
	case c == ')':
		s.advance()
		return token{kind: tokRParen, text: ")", pos: start, end: s.pos()}, nil
	case c == '=':
		s.advance()
		return token{kind: tokEquals, text: "=", pos: start, end: s.pos()}, nil
	case c == ';':
		s.advance()
		return token{kind: tokSemi, text: ";", pos: start, end: s.pos()}, nil
	case c == ',':
		s.advance()
		return token{kind: tokComma, text: ",", pos: start, end: s.pos()}, nil
	case c == '/' && s.peekAt(1) == '*':
		return s.scanComment(start)
	case c == '"':
		return s.scanQuoted(start)
	default:
		return s.scanBare(start)
	}
}

func (s *scanner) scanComment(start Position) (token, *SyntaxError) {
	s.advance() // '/'
	s.advance() // '*'
	contentStart := s.off
	for s.off < len(s.src) {
		if s.peek() == '*' && s.peekAt(1) == '/' {
			text := strings.TrimSpace(string(s.src[contentStart:s.off]))
			s.advance()
			s.advance()
			return token{kind: tokComment, text: text, pos: start, end: s.pos()}, nil
		}
		s.advance()
	}
	return token{}, &SyntaxError{
		Message: "unterminated block comment",
		Found:   "end of input",
		Pos:     start,
		End:     s.pos(),
	}
}

func (s *scanner) scanQuoted(start Position) (token, *SyntaxError) {
	s.advance() // opening quote
	var b strings.Builder
	for s.off < len(s.src) {
		c := s.advance()
		switch c {
		case '"':
			return token{kind: tokString, text: b.String(), pos: start, end: s.pos()}, nil
		case '\\':
			if s.off >= len(s.src) {
				break
			}
			b.WriteString(s.unescape())
		default:
			b.WriteByte(c)
		}
	}
	return token{}, &SyntaxError{
		Message: "unterminated string",
		Found:   "end of input",
		Pos:     start,
		End:     s.pos(),
	}
}

// unescape decodes one escape sequence; the backslash is already
// consumed. Unknown escapes keep the escaped character.
func (s *scanner) unescape() string {
	c := s.advance()
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '"', '\\', '\'':
		return string(c)
	case 'U', 'u':
		// Up to four hex digits name a UTF-16 code unit.
		var code rune
		digits := 0
		for digits < 4 && isHexDigit(s.peek()) {
			code = code<<4 | rune(hexVal(s.advance()))
			digits++
		}
		if digits == 0 {
			return string(c)
		}
		return string(code)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		// Octal escape, up to three digits total.
		code := rune(c - '0')
		for i := 0; i < 2 && s.peek() >= '0' && s.peek() <= '7'; i++ {
			code = code<<3 | rune(s.advance()-'0')
		}
		return string(code)
	default:
		return string(c)
	}
}

func (s *scanner) scanBare(start Position) (token, *SyntaxError) {
	begin := s.off
	for s.off < len(s.src) && !isDelim(s.peek()) {
		s.advance()
	}
	return token{kind: tokString, text: string(s.src[begin:s.off]), pos: start, end: s.pos()}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '{', '}', '(', ')', '=', ';', ',', '"':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
