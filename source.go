package pdfcrypt

import (
	"io"

	"github.com/prepare/pdfcrypt/internal/syntax"
)

// Source abstracts over polymorphic input sources. The interface is sealed;
// use Bytes or Reader to construct one.
type Source interface {
	tokens() syntax.TokenSource
}

type bytesSource struct{ data []byte }

func (s bytesSource) tokens() syntax.TokenSource { return syntax.NewLexer(s.data) }

// Bytes wraps a byte slice as a Source.
func Bytes(b []byte) Source { return bytesSource{data: b} }

type readerSource struct{ r io.Reader }

func (s readerSource) tokens() syntax.TokenSource { return &lazyReaderLexer{r: s.r} }

// Reader wraps an io.Reader as a Source. The input is drained on first use;
// apply ParseOpt.MaxBytes to cap untrusted inputs.
func Reader(r io.Reader) Source { return readerSource{r: r} }

// lazyReaderLexer defers reading until the first token is requested so that
// constructing a Source has no side effects.
type lazyReaderLexer struct {
	r   io.Reader
	lex *syntax.Lexer
	err error
}

func (l *lazyReaderLexer) init() {
	if l.lex != nil || l.err != nil {
		return
	}
	data, err := io.ReadAll(l.r)
	if err != nil {
		l.err = err
		return
	}
	l.lex = syntax.NewLexer(data)
}

func (l *lazyReaderLexer) NextToken() (syntax.Token, error) {
	l.init()
	if l.err != nil {
		return syntax.Token{}, l.err
	}
	return l.lex.NextToken()
}

func (l *lazyReaderLexer) Location() int64 {
	if l.lex == nil {
		return -1
	}
	return l.lex.Location()
}
