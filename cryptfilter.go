package pdfcrypt

import (
	"fmt"
	"sort"

	"github.com/prepare/pdfcrypt/i18n"
)

// Method identifies the cryptographic filter method selected by a crypt
// filter dictionary. The package only records the selection; applying the
// cipher is the caller's concern.
type Method int

const (
	// MethodNone leaves data unencrypted at this filter.
	MethodNone Method = iota
	// MethodV2 selects the RC4-based algorithm.
	MethodV2
	// MethodAESV2 selects AES-128 in CBC mode.
	MethodAESV2
	// MethodUnsupported marks a CFM token outside the known set. The raw
	// token is preserved so cipher selection can reject the document with a
	// useful message.
	MethodUnsupported
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "None"
	case MethodV2:
		return "V2"
	case MethodAESV2:
		return "AESV2"
	case MethodUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("method#%d", int(m))
	}
}

// CFM is the decoded value of the CFM entry. Unknown tokens are tagged
// MethodUnsupported rather than rejected, so the caller decides the policy.
type CFM struct {
	Method Method
	Raw    Name // the stored token; for known methods it equals the canonical one
}

func (c CFM) String() string {
	if c.Method == MethodUnsupported {
		return "unsupported(" + string(c.Raw) + ")"
	}
	return c.Method.String()
}

// Known CFM tokens.
const (
	cfmNone  Name = "None"
	cfmV2    Name = "V2"
	cfmAESV2 Name = "AESV2"
)

func methodForToken(tok Name) Method {
	switch tok {
	case cfmNone:
		return MethodNone
	case cfmV2:
		return MethodV2
	case cfmAESV2:
		return MethodAESV2
	default:
		return MethodUnsupported
	}
}

// AuthEvent names the moment at which key-access authorization is required.
type AuthEvent Name

const (
	// EventDocOpen requires authorization when the document is opened.
	EventDocOpen AuthEvent = "DocOpen"
	// EventEFOpen requires authorization when an embedded file is opened.
	EventEFOpen AuthEvent = "EFOpen"
)

// CryptFilter is a typed, validated view over one crypt filter dictionary.
// It holds no state beyond the reference to the underlying node; every
// accessor re-reads the node and consults the schema registry, so a document
// with one malformed entry can still be partially inspected.
type CryptFilter struct {
	dict Dict
}

// NewCryptFilter returns a descriptor backed by a fresh, empty node. All
// accessors return schema defaults until entries are set.
func NewCryptFilter() CryptFilter { return CryptFilter{dict: Dict{}} }

// AsCryptFilter wraps an existing node. No validation happens here;
// validation is on demand per accessor, or in full via Validate.
func AsCryptFilter(d Dict) CryptFilter { return CryptFilter{dict: d} }

// Node exposes the underlying dictionary. The descriptor does not own it;
// mutations are visible to every other view of the same node.
func (cf CryptFilter) Node() Dict { return cf.dict }

// lookup fetches key and checks its kind against the registry. It returns
// the stored object (nil when absent) or a single-issue error on mismatch.
func (cf CryptFilter) lookup(key Name) (Object, error) {
	obj, ok := cf.dict.Get(key)
	if !ok {
		return nil, nil
	}
	c, known := CryptFilterSchema().LookupConstraint(key)
	if known && !c.Kinds.Has(obj.Kind()) {
		return nil, Issues{issueAt(key, CodeInvalidType, map[string]any{
			"expected": c.Kinds.String(), "got": obj.Kind().String(),
		})}
	}
	return obj, nil
}

// Method returns the decoded CFM entry. Absent means MethodNone (the schema
// default); unknown tokens come back tagged MethodUnsupported. The only
// error is a stored value that is not a name.
func (cf CryptFilter) Method() (CFM, error) {
	obj, err := cf.lookup(KeyCFM)
	if err != nil {
		return CFM{}, err
	}
	if obj == nil {
		return CFM{Method: MethodNone, Raw: cfmNone}, nil
	}
	tok := obj.(Name)
	return CFM{Method: methodForToken(tok), Raw: tok}, nil
}

// Version returns the V entry, defaulting to 0 when absent. Values outside
// the documented set {0..4} are returned as-is; Validate reports them.
func (cf CryptFilter) Version() (int, error) {
	obj, err := cf.lookup(KeyV)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	return int(obj.(Integer)), nil
}

// AuthEvent returns the authorization event. When the descriptor occupies a
// default stream/string filter slot of the parent handler, the stored value
// is overridden with DocOpen per the format rules.
func (cf CryptFilter) AuthEvent(isDefaultFilterSlot bool) (AuthEvent, error) {
	if isDefaultFilterSlot {
		return EventDocOpen, nil
	}
	obj, err := cf.lookup(KeyAuthEvent)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return EventDocOpen, nil
	}
	return AuthEvent(obj.(Name)), nil
}

// lengthValid checks the key bit-length domain.
func lengthValid(bits int64) bool {
	return bits%8 == 0 && bits >= 40 && bits <= 128
}

// KeyLength returns the encryption key length in bits. present is false when
// the entry is absent. Present values outside [40,128] or not a multiple of
// eight are an out_of_range error, never silently clamped.
func (cf CryptFilter) KeyLength() (bits int, present bool, err error) {
	obj, err := cf.lookup(KeyLength)
	if err != nil {
		return 0, false, err
	}
	if obj == nil {
		return 0, false, nil
	}
	v := int64(obj.(Integer))
	if !lengthValid(v) {
		return 0, true, Issues{issueAt(KeyLength, CodeOutOfRange, map[string]any{
			"min": 40, "max": 128, "multiple": 8, "got": v,
		})}
	}
	return int(v), true, nil
}

// EncryptMetadata reports whether document-level metadata streams are
// encrypted, defaulting to true. The entry is only meaningful when this
// descriptor is the parent handler's stream filter.
func (cf CryptFilter) EncryptMetadata() (bool, error) {
	obj, err := cf.lookup(KeyEncryptMetadata)
	if err != nil {
		return true, err
	}
	if obj == nil {
		return true, nil
	}
	return bool(obj.(Boolean)), nil
}

// Recipients returns the opaque recipient blobs: either a single byte string
// or an array of byte strings on the wire. No recipient-list decoding
// happens here.
func (cf CryptFilter) Recipients() ([]String, error) {
	obj, err := cf.lookup(KeyRecipients)
	if err != nil {
		return nil, err
	}
	switch v := obj.(type) {
	case nil:
		return nil, nil
	case String:
		return []String{v}, nil
	case Array:
		out := make([]String, 0, len(v))
		for i, el := range v {
			s, ok := el.(String)
			if !ok {
				return nil, Issues{Issue{
					Path:     fmt.Sprintf("/%s/%d", KeyRecipients, i),
					Code:     CodeInvalidType,
					Severity: Error,
					Message:  i18n.T(CodeInvalidType, nil),
					Hint:     "expected byte string element",
					Offset:   -1,
				}}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		// unreachable: lookup already enforced array-or-string
		return nil, Issues{issueAt(KeyRecipients, CodeInvalidType, nil)}
	}
}

// Set validates value's kind against the schema entry for key before
// writing. Kind mismatches are rejected and nothing is written. Unknown keys
// are written unvalidated for forward compatibility; the returned Issues
// then carry a single warning-severity unknown_key entry, which callers may
// ignore (check Issues.HasErrors to distinguish).
func (cf CryptFilter) Set(key Name, value Object) error {
	if value == nil {
		cf.dict.Delete(key)
		return nil
	}
	c, known := CryptFilterSchema().LookupConstraint(key)
	if !known {
		cf.dict.Set(key, value)
		return Issues{warnAt(key, CodeUnknownKey, nil)}
	}
	if !c.Kinds.Has(value.Kind()) {
		return Issues{issueAt(key, CodeInvalidType, map[string]any{
			"expected": c.Kinds.String(), "got": value.Kind().String(),
		})}
	}
	cf.dict.Set(key, value)
	return nil
}

// tolerated maps anomaly severity per mode: hard in strict, warning in
// lenient.
func tolerated(mode Mode) Severity {
	if mode == Lenient {
		return Warn
	}
	return Error
}

// Validate runs the full field-by-field validation under the caller-supplied
// context and returns the ordered list of violations (known keys in sorted
// order, then unknown keys in sorted order). It never stops at the first
// violation: callers need the complete picture to decide whether to reject
// or warn and continue.
func (cf CryptFilter) Validate(opt ValidateOpt) Issues {
	var iss Issues
	reg := CryptFilterSchema()

	for _, key := range reg.Keys() {
		c, _ := reg.LookupConstraint(key)

		obj, ok := cf.dict.Get(key)
		if !ok {
			if cf.requiredInContext(key, c, opt) {
				iss = AppendIssues(iss, issueAt(key, CodeRequired, nil))
			}
			continue
		}
		if !c.Kinds.Has(obj.Kind()) {
			iss = AppendIssues(iss, issueAt(key, CodeInvalidType, map[string]any{
				"expected": c.Kinds.String(), "got": obj.Kind().String(),
			}))
			continue
		}
		iss = AppendIssues(iss, cf.checkValue(key, obj, opt)...)
	}

	// unknown keys in sorted order, informational only
	var unknown []Name
	for k := range cf.dict {
		if _, known := reg.LookupConstraint(k); !known {
			unknown = append(unknown, k)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, k := range unknown {
		iss = AppendIssues(iss, warnAt(k, CodeUnknownKey, nil))
	}

	return iss
}

// requiredInContext applies the slot-dependent required/optional flips on
// top of the static table.
func (cf CryptFilter) requiredInContext(key Name, c Constraint, opt ValidateOpt) bool {
	if key == KeyRecipients {
		// public-key handlers need recipient blobs wherever the filter is
		// actually referenced
		return opt.PublicKey && opt.Slot != SlotNone
	}
	return c.Required
}

// checkValue runs the per-key value rules for a present, kind-correct entry.
func (cf CryptFilter) checkValue(key Name, obj Object, opt ValidateOpt) Issues {
	switch key {
	case KeyType:
		if tok := obj.(Name); tok != nameCryptFilter {
			return Issues{issueAt(key, CodeInvalidEnum, map[string]any{
				"expected": string(nameCryptFilter), "got": string(tok),
			})}
		}
	case KeyCFM:
		if tok := obj.(Name); methodForToken(tok) == MethodUnsupported {
			it := issueAt(key, CodeUnsupportedAlgorithm, map[string]any{"got": string(tok)})
			it.Severity = tolerated(opt.Mode)
			it.Hint = "known methods: None, V2, AESV2"
			return Issues{it}
		}
	case KeyV:
		if v := int64(obj.(Integer)); v < 0 || v > 4 {
			it := issueAt(key, CodeUnknownVersion, map[string]any{"got": v})
			it.Severity = tolerated(opt.Mode)
			return Issues{it}
		}
	case KeyAuthEvent:
		if opt.Slot.isDefaultFilter() {
			// stored value is ignored for default filter slots
			return nil
		}
		switch AuthEvent(obj.(Name)) {
		case EventDocOpen, EventEFOpen:
		default:
			it := issueAt(key, CodeInvalidEnum, map[string]any{"got": string(obj.(Name))})
			it.Severity = tolerated(opt.Mode)
			it.Hint = "expected DocOpen or EFOpen"
			return Issues{it}
		}
	case KeyLength:
		if v := int64(obj.(Integer)); !lengthValid(v) {
			it := issueAt(key, CodeOutOfRange, map[string]any{
				"min": 40, "max": 128, "multiple": 8, "got": v,
			})
			it.Severity = tolerated(opt.Mode)
			return Issues{it}
		}
	case KeyRecipients:
		if arr, ok := obj.(Array); ok {
			var iss Issues
			for i, el := range arr {
				if _, ok := el.(String); !ok {
					iss = AppendIssues(iss, Issue{
						Path:     fmt.Sprintf("/%s/%d", key, i),
						Code:     CodeInvalidType,
						Severity: Error,
						Message:  i18n.T(CodeInvalidType, nil),
						Hint:     "expected byte string element",
						Offset:   -1,
					})
				}
			}
			return iss
		}
	}
	return nil
}
