package pdfcrypt_test

import (
	"context"
	"strings"
	"testing"

	pdfcrypt "github.com/prepare/pdfcrypt"
)

func TestParseDict_Basics(t *testing.T) {
	ctx := context.Background()
	in := []byte("<< /CFM /AESV2 /Length 128 /EncryptMetadata false >>")
	d, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in))
	if err != nil {
		t.Fatalf("ParseDict: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", d.Len())
	}
	if v, _ := d.Get("CFM"); v != pdfcrypt.Name("AESV2") {
		t.Fatalf("CFM = %v", v)
	}
	if v, _ := d.Get("EncryptMetadata"); v != pdfcrypt.Boolean(false) {
		t.Fatalf("EncryptMetadata = %v", v)
	}
}

func TestParseDict_NestedAndReferences(t *testing.T) {
	ctx := context.Background()
	in := []byte("<< /CF << /StdCF << /CFM /V2 >> >> /StmF /StdCF /Parent 12 0 R >>")
	d, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in))
	if err != nil {
		t.Fatalf("ParseDict: %v", err)
	}
	cf, ok := d.Get("CF")
	if !ok {
		t.Fatalf("missing CF")
	}
	inner, ok := cf.(pdfcrypt.Dict)
	if !ok {
		t.Fatalf("CF is %T", cf)
	}
	if _, ok := inner.Get("StdCF"); !ok {
		t.Fatalf("missing StdCF")
	}
	ref, _ := d.Get("Parent")
	if ref != (pdfcrypt.Reference{Number: 12, Generation: 0}) {
		t.Fatalf("Parent = %v", ref)
	}
}

func TestParseDict_DuplicateKey_WarnVsError(t *testing.T) {
	ctx := context.Background()
	in := []byte("<< /V 1 /V 2 >>")

	// Warn: keep the last value, report the duplicate
	d, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in), pdfcrypt.ParseOpt{OnDuplicateKey: pdfcrypt.Warn})
	if d == nil {
		t.Fatalf("warn mode must still yield a dict: %v", err)
	}
	iss, ok := pdfcrypt.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != pdfcrypt.CodeDuplicateKey {
		t.Fatalf("expected duplicate_key warning, got %v", err)
	}
	if iss.HasErrors() {
		t.Fatalf("warn mode must not harden the duplicate: %v", iss)
	}
	if v, _ := d.Get("V"); v != pdfcrypt.Integer(2) {
		t.Fatalf("expected last value to win, got %v", v)
	}

	// Error: reject
	if _, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in), pdfcrypt.ParseOpt{OnDuplicateKey: pdfcrypt.Error}); err == nil {
		t.Fatalf("expected rejection under Error strictness")
	}

	// Ignore: silent
	if _, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in)); err != nil {
		t.Fatalf("ignore mode must pass silently: %v", err)
	}
}

func TestParseDict_MaxDepth(t *testing.T) {
	ctx := context.Background()
	in := []byte("<< /A << /B << /C 1 >> >> >>")
	if _, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in), pdfcrypt.ParseOpt{MaxDepth: 2}); err == nil {
		t.Fatalf("expected depth_exceeded")
	} else if iss, _ := pdfcrypt.AsIssues(err); len(iss) == 0 || iss[len(iss)-1].Code != pdfcrypt.CodeDepthExceeded {
		t.Fatalf("expected depth_exceeded, got %v", err)
	}
	if _, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in), pdfcrypt.ParseOpt{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should fit: %v", err)
	}
}

func TestParseDict_MaxBytes(t *testing.T) {
	ctx := context.Background()
	in := []byte("<< /Recipients (" + strings.Repeat("x", 256) + ") >>")
	_, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(in), pdfcrypt.ParseOpt{MaxBytes: 64})
	if err == nil {
		t.Fatalf("expected truncated")
	}
	iss, _ := pdfcrypt.AsIssues(err)
	found := false
	for _, it := range iss {
		if it.Code == pdfcrypt.CodeTruncated {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected truncated issue, got %v", iss)
	}
}

func TestParseDict_TrailingData(t *testing.T) {
	ctx := context.Background()
	if _, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes([]byte("<< /V 1 >> garbage"))); err == nil {
		t.Fatalf("expected parse_error for trailing data")
	}
}

func TestParseDict_NonDictInput(t *testing.T) {
	ctx := context.Background()
	_, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes([]byte("(just a string)")))
	iss, ok := pdfcrypt.AsIssues(err)
	if !ok || iss[len(iss)-1].Code != pdfcrypt.CodeInvalidType {
		t.Fatalf("expected invalid_type at root, got %v", err)
	}
}

func TestParseObject_Reader(t *testing.T) {
	ctx := context.Background()
	obj, err := pdfcrypt.ParseObject(ctx, pdfcrypt.Reader(strings.NewReader("[ /A 1 true (s) ]")))
	if err != nil {
		t.Fatalf("ParseObject: %v", err)
	}
	arr, ok := obj.(pdfcrypt.Array)
	if !ok || len(arr) != 4 {
		t.Fatalf("expected 4-element array, got %v", obj)
	}
}

func TestParseDict_NullValueMeansAbsent(t *testing.T) {
	ctx := context.Background()
	d, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes([]byte("<< /CFM null /V 1 >>")))
	if err != nil {
		t.Fatalf("ParseDict: %v", err)
	}
	if d.Has("CFM") {
		t.Fatalf("null values must behave like absent entries")
	}
	if !d.Has("V") {
		t.Fatalf("V lost")
	}
}
