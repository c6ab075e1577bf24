package pdfcrypt_test

import (
	"context"
	"testing"

	pdfcrypt "github.com/prepare/pdfcrypt"
)

func TestMethod_RoundTripKnownTokens(t *testing.T) {
	for _, tok := range []pdfcrypt.Name{"None", "V2", "AESV2"} {
		cf := pdfcrypt.NewCryptFilter()
		if err := cf.Set(pdfcrypt.KeyCFM, tok); err != nil {
			t.Fatalf("Set(CFM, %s): %v", tok, err)
		}
		m, err := cf.Method()
		if err != nil {
			t.Fatalf("Method(): %v", err)
		}
		if m.Raw != tok {
			t.Fatalf("expected raw token %s, got %s", tok, m.Raw)
		}
		if m.Method == pdfcrypt.MethodUnsupported {
			t.Fatalf("token %s came back unsupported", tok)
		}
	}
}

func TestMethod_UnknownTokenTaggedNotRejected(t *testing.T) {
	cf := pdfcrypt.NewCryptFilter()
	if err := cf.Set(pdfcrypt.KeyCFM, pdfcrypt.Name("AESV3")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	m, err := cf.Method()
	if err != nil {
		t.Fatalf("Method() must not fail on unknown tokens: %v", err)
	}
	if m.Method != pdfcrypt.MethodUnsupported || m.Raw != "AESV3" {
		t.Fatalf("expected unsupported(AESV3), got %v", m)
	}
}

func TestMethod_TypeMismatchIsHardError(t *testing.T) {
	cf := pdfcrypt.AsCryptFilter(pdfcrypt.Dict{pdfcrypt.KeyCFM: pdfcrypt.Integer(2)})
	if _, err := cf.Method(); err == nil {
		t.Fatalf("expected invalid_type error")
	} else if iss, ok := pdfcrypt.AsIssues(err); !ok || iss[0].Code != pdfcrypt.CodeInvalidType {
		t.Fatalf("expected invalid_type issue, got %v", err)
	}
}

func TestVersion_DefaultZero(t *testing.T) {
	cf := pdfcrypt.NewCryptFilter()
	v, err := cf.Version()
	if err != nil {
		t.Fatalf("Version(): %v", err)
	}
	if v != 0 {
		t.Fatalf("expected default 0, got %d", v)
	}
}

func TestKeyLength_RangeChecks(t *testing.T) {
	cases := []struct {
		bits int64
		ok   bool
	}{
		{39, false},
		{40, true},
		{128, true},
		{136, false},
		{41, false},
	}
	for _, tc := range cases {
		cf := pdfcrypt.AsCryptFilter(pdfcrypt.Dict{pdfcrypt.KeyLength: pdfcrypt.Integer(tc.bits)})
		bits, present, err := cf.KeyLength()
		if tc.ok {
			if err != nil || !present || int64(bits) != tc.bits {
				t.Fatalf("Length=%d: expected ok, got bits=%d present=%v err=%v", tc.bits, bits, present, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("Length=%d: expected out_of_range", tc.bits)
		}
		iss, ok := pdfcrypt.AsIssues(err)
		if !ok || iss[0].Code != pdfcrypt.CodeOutOfRange {
			t.Fatalf("Length=%d: expected out_of_range issue, got %v", tc.bits, err)
		}
	}
}

func TestKeyLength_AbsentIsNotAnError(t *testing.T) {
	cf := pdfcrypt.NewCryptFilter()
	_, present, err := cf.KeyLength()
	if err != nil || present {
		t.Fatalf("expected absent length, got present=%v err=%v", present, err)
	}
}

func TestAuthEvent_DefaultFilterSlotOverride(t *testing.T) {
	cf := pdfcrypt.AsCryptFilter(pdfcrypt.Dict{pdfcrypt.KeyAuthEvent: pdfcrypt.Name("EFOpen")})
	ev, err := cf.AuthEvent(true)
	if err != nil {
		t.Fatalf("AuthEvent: %v", err)
	}
	if ev != pdfcrypt.EventDocOpen {
		t.Fatalf("default filter slot must force DocOpen, got %s", ev)
	}
}

func TestAuthEvent_StoredAndDefault(t *testing.T) {
	cf := pdfcrypt.NewCryptFilter()
	if ev, err := cf.AuthEvent(false); err != nil || ev != pdfcrypt.EventDocOpen {
		t.Fatalf("expected default DocOpen, got %s err=%v", ev, err)
	}
	if err := cf.Set(pdfcrypt.KeyAuthEvent, pdfcrypt.Name("EFOpen")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ev, err := cf.AuthEvent(false); err != nil || ev != pdfcrypt.EventEFOpen {
		t.Fatalf("expected stored EFOpen, got %s err=%v", ev, err)
	}
}

func TestSet_KindMismatchRejectedWithoutWrite(t *testing.T) {
	cf := pdfcrypt.NewCryptFilter()
	err := cf.Set(pdfcrypt.KeyLength, pdfcrypt.Name("long"))
	if err == nil {
		t.Fatalf("expected invalid_type")
	}
	if cf.Node().Has(pdfcrypt.KeyLength) {
		t.Fatalf("rejected write must not modify the node")
	}
}

func TestSet_UnknownKeyPassesThroughWithWarning(t *testing.T) {
	cf := pdfcrypt.NewCryptFilter()
	err := cf.Set(pdfcrypt.Name("FutureKey"), pdfcrypt.Integer(1))
	iss, ok := pdfcrypt.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != pdfcrypt.CodeUnknownKey {
		t.Fatalf("expected a single unknown_key entry, got %v", err)
	}
	if iss.HasErrors() {
		t.Fatalf("unknown_key must stay at warning severity")
	}
	if !cf.Node().Has("FutureKey") {
		t.Fatalf("unknown key must still be written")
	}
}

func TestValidate_StrictAggregatesAllViolations(t *testing.T) {
	cf := pdfcrypt.AsCryptFilter(pdfcrypt.Dict{
		pdfcrypt.KeyCFM:    pdfcrypt.Name("Bogus"),
		pdfcrypt.KeyLength: pdfcrypt.Integer(200),
	})
	iss := cf.Validate(pdfcrypt.ValidateOpt{Mode: pdfcrypt.Strict})
	if len(iss) != 2 {
		t.Fatalf("expected exactly two violations, got %v", iss)
	}
	if iss[0].Code != pdfcrypt.CodeUnsupportedAlgorithm || iss[0].Path != "/CFM" {
		t.Fatalf("expected unsupported_algorithm at /CFM first, got %+v", iss[0])
	}
	if iss[1].Code != pdfcrypt.CodeOutOfRange || iss[1].Path != "/Length" {
		t.Fatalf("expected out_of_range at /Length second, got %+v", iss[1])
	}
	if !iss.HasErrors() {
		t.Fatalf("strict mode must report hard errors")
	}
}

func TestValidate_LenientDowngradesToWarnings(t *testing.T) {
	cf := pdfcrypt.AsCryptFilter(pdfcrypt.Dict{
		pdfcrypt.KeyCFM:    pdfcrypt.Name("Bogus"),
		pdfcrypt.KeyLength: pdfcrypt.Integer(200),
		pdfcrypt.KeyV:      pdfcrypt.Integer(9),
	})
	iss := cf.Validate(pdfcrypt.ValidateOpt{Mode: pdfcrypt.Lenient})
	if len(iss) != 3 {
		t.Fatalf("expected three entries, got %v", iss)
	}
	if iss.HasErrors() {
		t.Fatalf("lenient mode must not produce hard errors here: %v", iss)
	}
}

func TestValidate_TypeMismatchAlwaysHard(t *testing.T) {
	cf := pdfcrypt.AsCryptFilter(pdfcrypt.Dict{
		pdfcrypt.KeyEncryptMetadata: pdfcrypt.Name("yes"),
	})
	iss := cf.Validate(pdfcrypt.ValidateOpt{Mode: pdfcrypt.Lenient})
	if len(iss) != 1 || iss[0].Code != pdfcrypt.CodeInvalidType || !iss.HasErrors() {
		t.Fatalf("kind mismatches must stay hard in lenient mode, got %v", iss)
	}
}

func TestValidate_RecipientsRequiredForPublicKeySlots(t *testing.T) {
	cf := pdfcrypt.NewCryptFilter()
	iss := cf.Validate(pdfcrypt.ValidateOpt{Slot: pdfcrypt.SlotStream, PublicKey: true})
	found := false
	for _, it := range iss {
		if it.Path == "/Recipients" && it.Code == pdfcrypt.CodeRequired {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected required at /Recipients, got %v", iss)
	}
	// standalone, Recipients stays optional
	if iss := cf.Validate(pdfcrypt.ValidateOpt{PublicKey: true}); len(iss) != 0 {
		t.Fatalf("expected no violations without a slot, got %v", iss)
	}
}

func TestRecipients_SingleStringAndArrayForms(t *testing.T) {
	blob := pdfcrypt.String([]byte{0x30, 0x82, 0x01})
	cf := pdfcrypt.AsCryptFilter(pdfcrypt.Dict{pdfcrypt.KeyRecipients: blob})
	recs, err := cf.Recipients()
	if err != nil || len(recs) != 1 {
		t.Fatalf("single string form: got %v err=%v", recs, err)
	}

	cf = pdfcrypt.AsCryptFilter(pdfcrypt.Dict{
		pdfcrypt.KeyRecipients: pdfcrypt.Array{blob, pdfcrypt.String("more")},
	})
	recs, err = cf.Recipients()
	if err != nil || len(recs) != 2 {
		t.Fatalf("array form: got %v err=%v", recs, err)
	}

	cf = pdfcrypt.AsCryptFilter(pdfcrypt.Dict{
		pdfcrypt.KeyRecipients: pdfcrypt.Array{blob, pdfcrypt.Integer(7)},
	})
	if _, err := cf.Recipients(); err == nil {
		t.Fatalf("expected invalid_type for non-string element")
	}
}

func TestCryptFilter_SerializeReparseRoundTrip(t *testing.T) {
	ctx := context.Background()

	cf := pdfcrypt.NewCryptFilter()
	must := func(err error) {
		if err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	must(cf.Set(pdfcrypt.KeyCFM, pdfcrypt.Name("AESV2")))
	must(cf.Set(pdfcrypt.KeyV, pdfcrypt.Integer(4)))
	must(cf.Set(pdfcrypt.KeyLength, pdfcrypt.Integer(128)))

	wire := pdfcrypt.AppendObject(nil, cf.Node())

	dict, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(wire))
	if err != nil {
		t.Fatalf("reparse of %q: %v", wire, err)
	}
	got := pdfcrypt.AsCryptFilter(dict)

	if m, err := got.Method(); err != nil || m.Method != pdfcrypt.MethodAESV2 {
		t.Fatalf("Method after round-trip: %v err=%v", m, err)
	}
	if v, err := got.Version(); err != nil || v != 4 {
		t.Fatalf("Version after round-trip: %d err=%v", v, err)
	}
	if bits, present, err := got.KeyLength(); err != nil || !present || bits != 128 {
		t.Fatalf("KeyLength after round-trip: %d present=%v err=%v", bits, present, err)
	}
}
