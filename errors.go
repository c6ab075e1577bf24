package pdfcrypt

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeUnknownKey           = "unknown_key"
	CodeDuplicateKey         = "duplicate_key"
	CodeOutOfRange           = "out_of_range"
	CodeUnsupportedAlgorithm = "unsupported_algorithm"
	CodeUnknownVersion       = "unknown_version"
	CodeInvalidEnum          = "invalid_enum"
	CodeUnknownFilter        = "unknown_filter"
	CodeParseError           = "parse_error"
	CodeDepthExceeded        = "depth_exceeded"
	CodeTruncated            = "truncated"
)

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Ignore:
		return "ignore"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity#%d", int(s))
	}
}

// Issue represents a single validation entry.
type Issue struct {
	Path     string // Slash-prefixed key path (for example: /CF/StdCF/Length).
	Code     string // One of the codes listed above.
	Severity Severity
	Message  string
	Hint     string // Optional: remediation hints, expected token sets, etc.
	Cause    error  // Optional: underlying error.
	Offset   int64  // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"min":40, "max":128, "got":200})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation entries that implements error.
// Validate-style APIs aggregate all violations in key order rather than
// failing on the first, so callers get the complete picture.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /CFM
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasErrors reports whether any entry carries Error severity. Warning-only
// collections are returned to callers but do not make a value unusable.
func (iss Issues) HasErrors() bool {
	for _, it := range iss {
		if it.Severity == Error {
			return true
		}
	}
	return false
}

// Filter returns the entries at or above the given severity, preserving order.
func (iss Issues) Filter(min Severity) Issues {
	var out Issues
	for _, it := range iss {
		if it.Severity >= min {
			out = append(out, it)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
