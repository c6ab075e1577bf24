package pdfcrypt

import (
	"context"
	"errors"

	"github.com/prepare/pdfcrypt/i18n"
	"github.com/prepare/pdfcrypt/internal/syntax"
)

// ParseObject is the primary entry point. It consumes tokens from the Source,
// applies the enforcement options, and builds an object graph. Collected
// warnings (for example duplicate keys under Warn) are returned alongside the
// value as Issues; error-severity issues make the returned object nil.
func ParseObject(ctx context.Context, src Source, opts ...ParseOpt) (Object, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}

	var collected Issues
	sink := func(si syntax.SimpleIssue) {
		sev := Error
		if si.Code == CodeDuplicateKey && opt.OnDuplicateKey == Warn {
			sev = Warn
		}
		collected = AppendIssues(collected, Issue{
			Path:     si.Path,
			Code:     si.Code,
			Severity: sev,
			Message:  i18n.T(si.Code, nil),
			Hint:     si.Message,
			Offset:   si.Offset,
		})
	}

	ts := syntax.WrapWithEnforcement(src.tokens(), syntax.EnforceOptions{
		OnDuplicate: toDupStrictness(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
		FailFast:    opt.FailFast,
	})

	obj, err := decodeValue(ts, false)
	if err != nil {
		return nil, toIssues(err, collected)
	}
	if err := expectEOF(ts); err != nil {
		return nil, toIssues(err, collected)
	}
	if collected.HasErrors() {
		return nil, collected
	}
	if len(collected) > 0 {
		return obj, collected
	}
	return obj, nil
}

// ParseDict parses a single dictionary from the Source. Non-dictionary input
// is an invalid_type issue at the root.
func ParseDict(ctx context.Context, src Source, opts ...ParseOpt) (Dict, error) {
	obj, err := ParseObject(ctx, src, opts...)
	if obj == nil && err != nil {
		return nil, err
	}
	d, ok := obj.(Dict)
	if !ok {
		iss, _ := AsIssues(err)
		iss = AppendIssues(iss, Issue{
			Path: "/", Code: CodeInvalidType, Severity: Error,
			Message: i18n.T(CodeInvalidType, nil), Hint: "expected dictionary", Offset: -1,
		})
		return nil, iss
	}
	return d, err
}

func toDupStrictness(s Severity) syntax.DuplicateStrictness {
	switch s {
	case Warn:
		return syntax.DupWarn
	case Error:
		return syntax.DupError
	default:
		return syntax.DupIgnore
	}
}

func toIssues(err error, collected Issues) Issues {
	if iss, ok := AsIssues(err); ok {
		return append(collected, iss...)
	}
	var ie syntax.IssueError
	if errors.As(err, &ie) {
		// the sink has usually seen this already; avoid double reporting
		for _, it := range collected {
			if it.Code == ie.Code && it.Offset == ie.Offset {
				return collected
			}
		}
		return AppendIssues(collected, Issue{
			Path:     ie.Path,
			Code:     ie.Code,
			Severity: Error,
			Message:  i18n.T(ie.Code, nil),
			Hint:     ie.Message,
			Offset:   ie.Offset,
		})
	}
	return AppendIssues(collected, Issue{
		Path: "/", Code: CodeParseError, Severity: Error,
		Message: err.Error(), Cause: err, Offset: -1,
	})
}

// decodeValue reads one complete object. inArray permits the closing array
// delimiter to surface to the caller via errEndArray.
var errEndArray = errors.New("pdfcrypt: end of array")

func decodeValue(ts syntax.TokenSource, inArray bool) (Object, error) {
	tok, err := ts.NextToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case syntax.KindDictBegin:
		return decodeDict(ts)
	case syntax.KindArrayBegin:
		return decodeArray(ts)
	case syntax.KindArrayEnd:
		if inArray {
			return nil, errEndArray
		}
		return nil, syntax.IssueError{SimpleIssue: syntax.SimpleIssue{
			Code: "parse_error", Path: "/", Message: "unexpected ']'", Offset: tok.Offset,
		}}
	case syntax.KindName:
		return Name(tok.Name), nil
	case syntax.KindInteger:
		return Integer(tok.Int), nil
	case syntax.KindBoolean:
		return Boolean(tok.Bool), nil
	case syntax.KindString:
		return String(tok.Bytes), nil
	case syntax.KindNull:
		return nil, nil
	case syntax.KindRef:
		return Reference{Number: tok.RefNum, Generation: tok.RefGen}, nil
	case syntax.KindEOF:
		return nil, syntax.IssueError{SimpleIssue: syntax.SimpleIssue{
			Code: "parse_error", Path: "/", Message: "unexpected end of input", Offset: tok.Offset,
		}}
	default:
		return nil, syntax.IssueError{SimpleIssue: syntax.SimpleIssue{
			Code: "parse_error", Path: "/", Message: "unexpected token", Offset: tok.Offset,
		}}
	}
}

func decodeDict(ts syntax.TokenSource) (Object, error) {
	d := Dict{}
	for {
		tok, err := ts.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case syntax.KindDictEnd:
			return d, nil
		case syntax.KindName:
			val, err := decodeValue(ts, false)
			if err != nil {
				return nil, err
			}
			if val == nil {
				// a null value is equivalent to an absent entry
				continue
			}
			d[Name(tok.Name)] = val
		default:
			return nil, syntax.IssueError{SimpleIssue: syntax.SimpleIssue{
				Code: "parse_error", Path: "/", Message: "expected name key in dictionary", Offset: tok.Offset,
			}}
		}
	}
}

func decodeArray(ts syntax.TokenSource) (Object, error) {
	arr := Array{}
	for {
		v, err := decodeValue(ts, true)
		if err != nil {
			if errors.Is(err, errEndArray) {
				return arr, nil
			}
			return nil, err
		}
		arr = append(arr, v)
	}
}

func expectEOF(ts syntax.TokenSource) error {
	tok, err := ts.NextToken()
	if err != nil {
		return err
	}
	if tok.Kind != syntax.KindEOF {
		return syntax.IssueError{SimpleIssue: syntax.SimpleIssue{
			Code: "parse_error", Path: "/", Message: "trailing data after object", Offset: tok.Offset,
		}}
	}
	return nil
}
