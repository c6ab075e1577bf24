package syntax

import "strconv"

// Enforcement wrapper for TokenSource to apply duplicate key handling and
// max depth / max bytes checks in a streaming fashion.

// DuplicateStrictness controls duplicate dictionary key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink is an optional callback to receive lightweight issues when in
	// collect mode. If nil, issues are not reported unless they are fatal.
	IssueSink func(SimpleIssue)
	// FailFast stops at the first issue encountered (duplicate/depth/bytes),
	// returning an error immediately.
	FailFast bool
}

type containerKind int

const (
	kindDict containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key
// policy, maximum nesting depth, and maximum consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
	depth int
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.currentPathForToken(tok)

	switch tok.Kind {
	case KindDictBegin:
		e.stack = append(e.stack, frame{kind: kindDict, keys: make(map[string]struct{}), expectingKey: true, path: path})
		e.depth++
		if e.opt.MaxDepth > 0 && e.depth > e.opt.MaxDepth {
			si := SimpleIssue{Code: "depth_exceeded", Path: path, Message: "max depth exceeded", Offset: tok.Offset}
			if e.opt.IssueSink != nil {
				e.opt.IssueSink(si)
			}
			return Token{}, IssueError{si}
		}
	case KindArrayBegin:
		e.stack = append(e.stack, frame{kind: kindArray, path: path})
		e.depth++
		if e.opt.MaxDepth > 0 && e.depth > e.opt.MaxDepth {
			si := SimpleIssue{Code: "depth_exceeded", Path: path, Message: "max depth exceeded", Offset: tok.Offset}
			if e.opt.IssueSink != nil {
				e.opt.IssueSink(si)
			}
			return Token{}, IssueError{si}
		}
	case KindDictEnd, KindArrayEnd:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		if e.depth > 0 {
			e.depth--
		}
		e.valueDone()
	case KindName:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindDict && top.expectingKey {
				if e.opt.OnDuplicate != DupIgnore {
					if _, ok := top.keys[tok.Name]; ok {
						si := SimpleIssue{Code: "duplicate_key", Path: path, Message: "key '" + tok.Name + "' duplicated", Offset: tok.Offset}
						if e.opt.IssueSink != nil {
							e.opt.IssueSink(si)
						}
						if e.opt.OnDuplicate == DupError || e.opt.FailFast {
							return Token{}, IssueError{si}
						}
					}
				}
				top.keys[tok.Name] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.Name
				break
			}
		}
		// a name in value position is an ordinary value
		e.valueDone()
	case KindInteger, KindBoolean, KindString, KindNull, KindRef:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			si := SimpleIssue{Code: "truncated", Path: path, Message: "max bytes exceeded", Offset: tok.Offset}
			if e.opt.IssueSink != nil {
				e.opt.IssueSink(si)
			}
			return Token{}, IssueError{si}
		}
	}

	return tok, nil
}

// valueDone flips the enclosing dict frame back to key position after a
// complete value.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindDict && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) currentPathForToken(tok Token) string {
	if len(e.stack) == 0 {
		return "/"
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindName:
		if top.kind == kindDict && top.expectingKey {
			return joinPath(top.path, tok.Name)
		}
		fallthrough
	case KindDictBegin, KindArrayBegin, KindInteger, KindBoolean, KindString, KindNull, KindRef:
		if top.kind == kindArray {
			p := joinPath(top.path, strconv.Itoa(top.nextIndex))
			top.nextIndex++
			return p
		}
		if top.pendingKey != "" || !top.expectingKey {
			return joinPath(top.path, top.pendingKey)
		}
		return normalizePath(top.path)
	default:
		return normalizePath(top.path)
	}
}

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return p
}

func joinPath(base, token string) string {
	if base == "" || base == "/" {
		return "/" + token
	}
	return base + "/" + token
}
