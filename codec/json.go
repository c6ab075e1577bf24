package codec

import (
	"encoding/base64"

	"github.com/goccy/go-json"
	pdfcrypt "github.com/prepare/pdfcrypt"
)

// JSON projections for tooling output: a Filter and a validation report are
// rendered as stable JSON documents. Recipient blobs are base64-encoded.

type filterJSON struct {
	Method          string   `json:"method"`
	RawMethod       string   `json:"rawMethod,omitempty"`
	KeyBits         int      `json:"keyBits,omitempty"`
	AuthEvent       string   `json:"authEvent"`
	EncryptMetadata bool     `json:"encryptMetadata"`
	Recipients      []string `json:"recipients,omitempty"`
}

// MarshalFilter renders f as JSON.
func MarshalFilter(f Filter) ([]byte, error) {
	out := filterJSON{
		Method:          f.Method.String(),
		KeyBits:         f.KeyBits,
		AuthEvent:       string(f.AuthEvent),
		EncryptMetadata: f.EncryptMetadata,
	}
	if f.Method == pdfcrypt.MethodUnsupported {
		out.RawMethod = f.RawMethod
	}
	for _, r := range f.Recipients {
		out.Recipients = append(out.Recipients, base64.StdEncoding.EncodeToString(r))
	}
	return json.Marshal(out)
}

// IssueReport is the JSON form of a single validation entry.
type IssueReport struct {
	Path     string `json:"path"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Hint     string `json:"hint,omitempty"`
}

// MarshalIssues renders a validation result as a JSON array, preserving
// order.
func MarshalIssues(iss pdfcrypt.Issues) ([]byte, error) {
	reports := make([]IssueReport, 0, len(iss))
	for _, it := range iss {
		reports = append(reports, IssueReport{
			Path:     it.Path,
			Code:     it.Code,
			Severity: it.Severity.String(),
			Message:  it.Message,
			Hint:     it.Hint,
		})
	}
	return json.Marshal(reports)
}
