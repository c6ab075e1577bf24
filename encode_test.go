package pdfcrypt_test

import (
	"bytes"
	"context"
	"testing"

	pdfcrypt "github.com/prepare/pdfcrypt"
)

func TestAppendObject_CanonicalForms(t *testing.T) {
	cases := []struct {
		obj  pdfcrypt.Object
		want string
	}{
		{pdfcrypt.Name("AESV2"), "/AESV2"},
		{pdfcrypt.Name("A B"), "/A#20B"},
		{pdfcrypt.Name("x#y"), "/x#23y"},
		{pdfcrypt.Integer(-42), "-42"},
		{pdfcrypt.Boolean(true), "true"},
		{pdfcrypt.Boolean(false), "false"},
		{pdfcrypt.String("hello"), "(hello)"},
		{pdfcrypt.String(`a(b)c\`), `(a\(b\)c\\)`},
		{pdfcrypt.String([]byte{0x01, 0xff}), "<01FF>"},
		{pdfcrypt.Array{pdfcrypt.Integer(1), pdfcrypt.Name("N"), pdfcrypt.Boolean(false)}, "[1 /N false]"},
		{pdfcrypt.Reference{Number: 7, Generation: 1}, "7 1 R"},
		{pdfcrypt.Dict{}, "<< >>"},
		{
			pdfcrypt.Dict{"V": pdfcrypt.Integer(4), "CFM": pdfcrypt.Name("V2")},
			"<< /CFM /V2 /V 4 >>", // keys sorted
		},
		{nil, "null"},
	}
	for _, tc := range cases {
		got := string(pdfcrypt.AppendObject(nil, tc.obj))
		if got != tc.want {
			t.Fatalf("AppendObject(%v) = %q, want %q", tc.obj, got, tc.want)
		}
	}
}

func TestAppendObject_Deterministic(t *testing.T) {
	d := pdfcrypt.Dict{
		"CFM":    pdfcrypt.Name("AESV2"),
		"Length": pdfcrypt.Integer(128),
		"V":      pdfcrypt.Integer(4),
	}
	first := pdfcrypt.AppendObject(nil, d)
	for i := 0; i < 16; i++ {
		if next := pdfcrypt.AppendObject(nil, d); !bytes.Equal(first, next) {
			t.Fatalf("nondeterministic output: %q vs %q", first, next)
		}
	}
}

func TestSerializeParse_ObjectGraphRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := pdfcrypt.Dict{
		"CFM":        pdfcrypt.Name("AESV2"),
		"Odd Name":   pdfcrypt.Name("with space"),
		"Length":     pdfcrypt.Integer(128),
		"Em":         pdfcrypt.Boolean(true),
		"Recipients": pdfcrypt.Array{pdfcrypt.String([]byte{0x30, 0x82, 0x00, 0xff})},
		"Nested":     pdfcrypt.Dict{"Ref": pdfcrypt.Reference{Number: 3, Generation: 0}},
	}
	wire := pdfcrypt.AppendObject(nil, d)
	got, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(wire))
	if err != nil {
		t.Fatalf("reparse of %q: %v", wire, err)
	}
	// a second serialization must be byte-identical
	wire2 := pdfcrypt.AppendObject(nil, got)
	if !bytes.Equal(wire, wire2) {
		t.Fatalf("round-trip changed bytes:\n  %q\n  %q", wire, wire2)
	}
}

func TestStringEscapes_SurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, s := range []string{"", "plain", "with (parens)", `back\slash`, "\x00\x01binary\xff"} {
		wire := pdfcrypt.AppendObject(nil, pdfcrypt.Dict{"S": pdfcrypt.String(s)})
		d, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(wire))
		if err != nil {
			t.Fatalf("reparse of %q: %v", wire, err)
		}
		got, _ := d.Get("S")
		if string(got.(pdfcrypt.String)) != s {
			t.Fatalf("string %q round-tripped to %q", s, got)
		}
	}
}
