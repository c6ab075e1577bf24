package pdfcrypt

import (
	"sort"
	"strings"
)

// Encryption dictionary keys consumed here. O/U/P/R belong to the standard
// security handler's key derivation, which is out of scope; they are
// registered for kind checking only.
const (
	KeyFilter    Name = "Filter"
	KeySubFilter Name = "SubFilter"
	KeyCF        Name = "CF"
	KeyStmF      Name = "StmF"
	KeyStrF      Name = "StrF"
	KeyEFF       Name = "EFF"
)

// nameIdentity marks the pass-through filter: no crypt filter applies.
const nameIdentity Name = "Identity"

var encryptRegistry = NewRegistry().
	Field(KeyFilter, Of(KindName)).Required().
	Field(KeySubFilter, Of(KindName)).
	Field(KeyV, Of(KindInteger)).Default(Integer(0)).
	Field(KeyLength, Of(KindInteger)).
	Field(KeyCF, Of(KindDict)).
	Field(KeyStmF, Of(KindName)).Default(nameIdentity).
	Field(KeyStrF, Of(KindName)).Default(nameIdentity).
	Field(KeyEFF, Of(KindName)).
	Field(KeyEncryptMetadata, Of(KindBoolean)).Default(Boolean(true)).
	Field("O", Of(KindString)).
	Field("U", Of(KindString)).
	Field("P", Of(KindInteger)).
	Field("R", Of(KindInteger)).
	Build()

// EncryptDictSchema returns the constraint table for encryption
// dictionaries. The table is shared and must not be mutated.
func EncryptDictSchema() *Registry { return encryptRegistry }

// EncryptDict is a typed view over the document's encryption dictionary: the
// parent of the crypt filter descriptors, supplying the slot context under
// which each descriptor is validated.
type EncryptDict struct {
	dict Dict
}

// NewEncryptDict returns a view over a fresh, empty node.
func NewEncryptDict() EncryptDict { return EncryptDict{dict: Dict{}} }

// AsEncryptDict wraps an existing node without validating it.
func AsEncryptDict(d Dict) EncryptDict { return EncryptDict{dict: d} }

// Node exposes the underlying dictionary.
func (e EncryptDict) Node() Dict { return e.dict }

func (e EncryptDict) lookup(key Name) (Object, error) {
	obj, ok := e.dict.Get(key)
	if !ok {
		return nil, nil
	}
	c, known := EncryptDictSchema().LookupConstraint(key)
	if known && !c.Kinds.Has(obj.Kind()) {
		return nil, Issues{issueAt(key, CodeInvalidType, map[string]any{
			"expected": c.Kinds.String(), "got": obj.Kind().String(),
		})}
	}
	return obj, nil
}

// Filter returns the security handler name (for example Standard).
func (e EncryptDict) Filter() (Name, error) {
	obj, err := e.lookup(KeyFilter)
	if err != nil || obj == nil {
		return "", err
	}
	return obj.(Name), nil
}

// Version returns the V entry, defaulting to 0.
func (e EncryptDict) Version() (int, error) {
	obj, err := e.lookup(KeyV)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	return int(obj.(Integer)), nil
}

// PublicKey reports whether the SubFilter marks a public-key (recipient
// list based) security handler.
func (e EncryptDict) PublicKey() (bool, error) {
	obj, err := e.lookup(KeySubFilter)
	if err != nil || obj == nil {
		return false, err
	}
	return strings.HasPrefix(string(obj.(Name)), "adbe.pkcs7"), nil
}

// EncryptMetadata reports whether document-level metadata streams are
// encrypted, defaulting to true.
func (e EncryptDict) EncryptMetadata() (bool, error) {
	obj, err := e.lookup(KeyEncryptMetadata)
	if err != nil {
		return true, err
	}
	if obj == nil {
		return true, nil
	}
	return bool(obj.(Boolean)), nil
}

// FilterName returns the crypt filter name referenced by the given slot.
// StmF and StrF default to Identity; EFF falls back to the StmF value.
func (e EncryptDict) FilterName(slot Slot) (Name, error) {
	var key Name
	switch slot {
	case SlotStream:
		key = KeyStmF
	case SlotString:
		key = KeyStrF
	case SlotEmbeddedFile:
		obj, err := e.lookup(KeyEFF)
		if err != nil {
			return "", err
		}
		if obj != nil {
			return obj.(Name), nil
		}
		return e.FilterName(SlotStream)
	default:
		return nameIdentity, nil
	}
	obj, err := e.lookup(key)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return nameIdentity, nil
	}
	return obj.(Name), nil
}

// ResolveFilter resolves the crypt filter referenced by slot. The first
// return is nil when no filter applies: Identity, or a V value that selects
// the algorithm directly instead of delegating to named filters. The
// resolved descriptor is validated under the slot context; its issues come
// back rebased under /CF/<name>.
func (e EncryptDict) ResolveFilter(slot Slot, mode Mode) (*CryptFilter, Issues) {
	v, err := e.Version()
	if err != nil {
		iss, _ := AsIssues(err)
		return nil, iss
	}
	if v != 4 {
		return nil, nil
	}

	name, err := e.FilterName(slot)
	if err != nil {
		iss, _ := AsIssues(err)
		return nil, iss
	}
	if name == nameIdentity {
		return nil, nil
	}

	cfObj, err := e.lookup(KeyCF)
	if err != nil {
		iss, _ := AsIssues(err)
		return nil, iss
	}
	if cfObj == nil {
		return nil, Issues{issueAt(KeyCF, CodeRequired, map[string]any{"filter": string(name)})}
	}
	cfDict := cfObj.(Dict)

	sub, ok := cfDict.Get(name)
	if !ok {
		it := issueAt(KeyCF, CodeUnknownFilter, map[string]any{"filter": string(name)})
		it.Path = "/CF/" + string(name)
		return nil, Issues{it}
	}
	subDict, ok := sub.(Dict)
	if !ok {
		it := issueAt(KeyCF, CodeInvalidType, map[string]any{
			"expected": KindDict.String(), "got": sub.Kind().String(),
		})
		it.Path = "/CF/" + string(name)
		return nil, Issues{it}
	}

	pk, _ := e.PublicKey()
	cf := AsCryptFilter(subDict)
	iss := cf.Validate(ValidateOpt{Slot: slot, Mode: mode, PublicKey: pk})
	return &cf, rebaseIssues("/CF/"+string(name), iss)
}

// Validate sweeps the encryption dictionary and every named crypt filter in
// CF, aggregating all violations in key order.
func (e EncryptDict) Validate(mode Mode) Issues {
	var iss Issues
	reg := EncryptDictSchema()

	for _, key := range reg.Keys() {
		c, _ := reg.LookupConstraint(key)
		obj, ok := e.dict.Get(key)
		if !ok {
			if c.Required {
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
		if key == KeyV {
			if v := int64(obj.(Integer)); v < 0 || v > 4 {
				it := issueAt(key, CodeUnknownVersion, map[string]any{"got": v})
				it.Severity = tolerated(mode)
				iss = AppendIssues(iss, it)
			}
		}
	}

	// unknown keys, informational
	var unknown []Name
	for k := range e.dict {
		if _, known := reg.LookupConstraint(k); !known {
			unknown = append(unknown, k)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, k := range unknown {
		iss = AppendIssues(iss, warnAt(k, CodeUnknownKey, nil))
	}

	// validate named crypt filters under their referencing slot when known
	if cfObj, err := e.lookup(KeyCF); err == nil && cfObj != nil {
		cfDict := cfObj.(Dict)
		stmF, _ := e.FilterName(SlotStream)
		strF, _ := e.FilterName(SlotString)
		pk, _ := e.PublicKey()
		for _, name := range cfDict.Keys() {
			sub, _ := cfDict.Get(name)
			subDict, ok := sub.(Dict)
			if !ok {
				it := issueAt(KeyCF, CodeInvalidType, map[string]any{
					"expected": KindDict.String(), "got": sub.Kind().String(),
				})
				it.Path = "/CF/" + string(name)
				iss = AppendIssues(iss, it)
				continue
			}
			slot := SlotNone
			switch name {
			case stmF:
				slot = SlotStream
			case strF:
				slot = SlotString
			}
			child := AsCryptFilter(subDict).Validate(ValidateOpt{Slot: slot, Mode: mode, PublicKey: pk})
			iss = AppendIssues(iss, rebaseIssues("/CF/"+string(name), child)...)
		}
	}

	return iss
}

// rebaseIssues prefixes every issue path with base, so child descriptor
// violations point into the parent dictionary.
func rebaseIssues(base string, iss Issues) Issues {
	if len(iss) == 0 {
		return nil
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case strings.HasPrefix(p, "/"):
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out[i] = it
	}
	return out
}
