package pdfcrypt

import "github.com/prepare/pdfcrypt/i18n"

// issueAt creates an error-severity Issue at the given key with provided code
// and params map. This is a convenience helper to improve readability at call
// sites with many parameters.
func issueAt(key Name, code string, params map[string]any) Issue {
	return Issue{
		Path:     "/" + string(key),
		Code:     code,
		Severity: Error,
		Message:  i18n.T(code, nil),
		Params:   params,
		Offset:   -1,
	}
}

// warnAt is issueAt at Warn severity.
func warnAt(key Name, code string, params map[string]any) Issue {
	it := issueAt(key, code, params)
	it.Severity = Warn
	return it
}
