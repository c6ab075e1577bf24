package syntax

import (
	"fmt"
	"strconv"
)

// Lexer tokenizes document object syntax from a byte slice: names with #xx
// escapes, decimal integers, the true/false/null keywords, literal and hex
// strings, array and dictionary delimiters, and indirect references (N G R),
// which are merged into a single token here so higher layers never need
// lookahead.
type Lexer struct {
	in  []byte
	pos int
}

// NewLexer returns a Lexer over in.
func NewLexer(in []byte) *Lexer { return &Lexer{in: in} }

// Location returns the current byte offset.
func (l *Lexer) Location() int64 { return int64(l.pos) }

func isWhite(c byte) bool {
	switch c {
	case 0x00, 0x09, 0x0a, 0x0c, 0x0d, 0x20:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *Lexer) skipWhite() {
	for l.pos < len(l.in) {
		c := l.in[l.pos]
		if isWhite(c) {
			l.pos++
			continue
		}
		if c == '%' { // comment runs to end of line
			for l.pos < len(l.in) && l.in[l.pos] != '\n' && l.in[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

func (l *Lexer) errAt(off int, msg string) error {
	return IssueError{SimpleIssue{Code: "parse_error", Path: "/", Message: msg, Offset: int64(off)}}
}

// NextToken returns the next token or an IssueError on malformed input.
// io.EOF is never returned; end of input yields KindEOF.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhite()
	if l.pos >= len(l.in) {
		return Token{Kind: KindEOF, Offset: int64(l.pos)}, nil
	}
	off := l.pos
	c := l.in[l.pos]
	switch {
	case c == '<':
		if l.pos+1 < len(l.in) && l.in[l.pos+1] == '<' {
			l.pos += 2
			return Token{Kind: KindDictBegin, Offset: int64(off)}, nil
		}
		return l.lexHexString()
	case c == '>':
		if l.pos+1 < len(l.in) && l.in[l.pos+1] == '>' {
			l.pos += 2
			return Token{Kind: KindDictEnd, Offset: int64(off)}, nil
		}
		return Token{}, l.errAt(off, "unexpected '>'")
	case c == '[':
		l.pos++
		return Token{Kind: KindArrayBegin, Offset: int64(off)}, nil
	case c == ']':
		l.pos++
		return Token{Kind: KindArrayEnd, Offset: int64(off)}, nil
	case c == '/':
		return l.lexName()
	case c == '(':
		return l.lexLiteralString()
	case c == '+' || c == '-' || (c >= '0' && c <= '9'):
		return l.lexNumber()
	default:
		return l.lexKeyword()
	}
}

func (l *Lexer) lexName() (Token, error) {
	off := l.pos
	l.pos++ // consume '/'
	var out []byte
	for l.pos < len(l.in) {
		c := l.in[l.pos]
		if isWhite(c) || isDelim(c) {
			break
		}
		if c == '#' {
			if l.pos+2 >= len(l.in) {
				return Token{}, l.errAt(l.pos, "truncated #xx escape in name")
			}
			hi := unhex(l.in[l.pos+1])
			lo := unhex(l.in[l.pos+2])
			if hi < 0 || lo < 0 {
				return Token{}, l.errAt(l.pos, "invalid #xx escape in name")
			}
			out = append(out, byte(hi<<4|lo))
			l.pos += 3
			continue
		}
		out = append(out, c)
		l.pos++
	}
	return Token{Kind: KindName, Name: string(out), Offset: int64(off)}, nil
}

func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func (l *Lexer) lexHexString() (Token, error) {
	off := l.pos
	l.pos++ // consume '<'
	var out []byte
	var hi = -1
	for l.pos < len(l.in) {
		c := l.in[l.pos]
		if c == '>' {
			l.pos++
			if hi >= 0 { // odd digit count: trailing zero per the format rules
				out = append(out, byte(hi<<4))
			}
			return Token{Kind: KindString, Bytes: out, Offset: int64(off)}, nil
		}
		if isWhite(c) {
			l.pos++
			continue
		}
		d := unhex(c)
		if d < 0 {
			return Token{}, l.errAt(l.pos, "invalid hex digit in string")
		}
		if hi < 0 {
			hi = d
		} else {
			out = append(out, byte(hi<<4|d))
			hi = -1
		}
		l.pos++
	}
	return Token{}, l.errAt(off, "unterminated hex string")
}

func (l *Lexer) lexLiteralString() (Token, error) {
	off := l.pos
	l.pos++ // consume '('
	var out []byte
	depth := 1 // balanced unescaped parentheses are legal inside
	for l.pos < len(l.in) {
		c := l.in[l.pos]
		switch c {
		case '\\':
			l.pos++
			if l.pos >= len(l.in) {
				return Token{}, l.errAt(off, "unterminated string")
			}
			e := l.in[l.pos]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\r':
				// line continuation; swallow an optional \n
				if l.pos+1 < len(l.in) && l.in[l.pos+1] == '\n' {
					l.pos++
				}
			case '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for n := 0; n < 2 && l.pos+1 < len(l.in); n++ {
						nc := l.in[l.pos+1]
						if nc < '0' || nc > '7' {
							break
						}
						v = v<<3 | int(nc-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					// unknown escape: the backslash is dropped
					out = append(out, e)
				}
			}
			l.pos++
		case '(':
			depth++
			out = append(out, c)
			l.pos++
		case ')':
			depth--
			l.pos++
			if depth == 0 {
				return Token{Kind: KindString, Bytes: out, Offset: int64(off)}, nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
			l.pos++
		}
	}
	return Token{}, l.errAt(off, "unterminated string")
}

func (l *Lexer) lexNumber() (Token, error) {
	off := l.pos
	start := l.pos
	if c := l.in[l.pos]; c == '+' || c == '-' {
		l.pos++
	}
	for l.pos < len(l.in) && l.in[l.pos] >= '0' && l.in[l.pos] <= '9' {
		l.pos++
	}
	if l.pos < len(l.in) && l.in[l.pos] == '.' {
		return Token{}, l.errAt(off, "real numbers are not valid in encryption dictionaries")
	}
	text := string(l.in[start:l.pos])
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, l.errAt(off, fmt.Sprintf("invalid integer %q", text))
	}
	// Lookahead for an indirect reference: <int> <int> R.
	if tok, ok := l.tryRef(v, off); ok {
		return tok, nil
	}
	return Token{Kind: KindInteger, Int: v, Offset: int64(off)}, nil
}

// tryRef attempts to read "<gen> R" after an already-lexed non-negative
// integer. On failure the position is restored and no token is produced.
func (l *Lexer) tryRef(num int64, off int) (Token, bool) {
	if num < 0 {
		return Token{}, false
	}
	save := l.pos
	l.skipWhite()
	start := l.pos
	for l.pos < len(l.in) && l.in[l.pos] >= '0' && l.in[l.pos] <= '9' {
		l.pos++
	}
	if l.pos == start {
		l.pos = save
		return Token{}, false
	}
	gen, err := strconv.ParseInt(string(l.in[start:l.pos]), 10, 32)
	if err != nil {
		l.pos = save
		return Token{}, false
	}
	l.skipWhite()
	if l.pos >= len(l.in) || l.in[l.pos] != 'R' {
		l.pos = save
		return Token{}, false
	}
	// 'R' must stand alone
	if l.pos+1 < len(l.in) && !isWhite(l.in[l.pos+1]) && !isDelim(l.in[l.pos+1]) {
		l.pos = save
		return Token{}, false
	}
	l.pos++
	return Token{Kind: KindRef, RefNum: uint32(num), RefGen: uint16(gen), Offset: int64(off)}, true
}

func (l *Lexer) lexKeyword() (Token, error) {
	off := l.pos
	start := l.pos
	for l.pos < len(l.in) {
		c := l.in[l.pos]
		if isWhite(c) || isDelim(c) {
			break
		}
		l.pos++
	}
	switch kw := string(l.in[start:l.pos]); kw {
	case "true":
		return Token{Kind: KindBoolean, Bool: true, Offset: int64(off)}, nil
	case "false":
		return Token{Kind: KindBoolean, Bool: false, Offset: int64(off)}, nil
	case "null":
		return Token{Kind: KindNull, Offset: int64(off)}, nil
	case "":
		return Token{}, l.errAt(off, "unexpected input")
	default:
		return Token{}, l.errAt(off, fmt.Sprintf("unexpected keyword %q", kw))
	}
}
