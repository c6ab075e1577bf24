package pdfcrypt

import "sort"

// Constraint is the per-key schema entry consulted by descriptors: the
// accepted value kinds, whether the key is required by default, and the
// value assumed when the key is absent. Defaults apply only when the key is
// entirely absent, never when it is present with an unexpected kind.
type Constraint struct {
	Kinds    KindSet
	Required bool
	Default  Object
}

// Registry maps dictionary keys to constraints. Lookup misses mean the key is
// unknown to this revision of the format; such keys pass through unvalidated.
type Registry struct {
	entries map[Name]Constraint
	keys    []Name
}

// LookupConstraint returns the constraint registered for key, if any.
func (r *Registry) LookupConstraint(key Name) (Constraint, bool) {
	c, ok := r.entries[key]
	return c, ok
}

// Keys returns the registered keys in sorted order, for deterministic
// validation sweeps.
func (r *Registry) Keys() []Name { return r.keys }

// RegistryBuilder assembles a Registry with a fluent interface:
//
//	reg := pdfcrypt.NewRegistry().
//		Field("CFM", pdfcrypt.Of(pdfcrypt.KindName)).Default(pdfcrypt.Name("None")).
//		Field("Length", pdfcrypt.Of(pdfcrypt.KindInteger)).
//		Build()
type RegistryBuilder struct {
	entries map[Name]Constraint
	last    Name
}

// NewRegistry starts a new RegistryBuilder.
func NewRegistry() *RegistryBuilder {
	return &RegistryBuilder{entries: map[Name]Constraint{}}
}

// Field registers key with its accepted kinds and selects it for the
// follow-up Required/Default calls.
func (b *RegistryBuilder) Field(key Name, kinds KindSet) *RegistryBuilder {
	b.entries[key] = Constraint{Kinds: kinds}
	b.last = key
	return b
}

// Required marks the most recently added field as required by default.
// Context-dependent requiredness (slots) is layered on top by ValidateOpt.
func (b *RegistryBuilder) Required() *RegistryBuilder {
	c := b.entries[b.last]
	c.Required = true
	b.entries[b.last] = c
	return b
}

// Default sets the value assumed for the most recently added field when it is
// absent.
func (b *RegistryBuilder) Default(v Object) *RegistryBuilder {
	c := b.entries[b.last]
	c.Default = v
	b.entries[b.last] = c
	return b
}

// Build finalizes the Registry.
func (b *RegistryBuilder) Build() *Registry {
	entries := make(map[Name]Constraint, len(b.entries))
	keys := make([]Name, 0, len(b.entries))
	for k, c := range b.entries {
		entries[k] = c
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &Registry{entries: entries, keys: keys}
}

// Well-known crypt filter dictionary keys.
const (
	KeyType            Name = "Type"
	KeyCFM             Name = "CFM"
	KeyV               Name = "V"
	KeyAuthEvent       Name = "AuthEvent"
	KeyLength          Name = "Length"
	KeyRecipients      Name = "Recipients"
	KeyEncryptMetadata Name = "EncryptMetadata"
)

// nameCryptFilter is the Type token identifying a crypt filter dictionary.
const nameCryptFilter Name = "CryptFilter"

var cryptFilterRegistry = NewRegistry().
	Field(KeyType, Of(KindName)).
	Field(KeyCFM, Of(KindName)).Default(Name("None")).
	Field(KeyV, Of(KindInteger)).Default(Integer(0)).
	Field(KeyAuthEvent, Of(KindName)).Default(Name("DocOpen")).
	Field(KeyLength, Of(KindInteger)).
	Field(KeyRecipients, Of(KindArray, KindString)).
	Field(KeyEncryptMetadata, Of(KindBoolean)).Default(Boolean(true)).
	Build()

// CryptFilterSchema returns the constraint table for crypt filter
// dictionaries. The table is shared and must not be mutated.
func CryptFilterSchema() *Registry { return cryptFilterRegistry }
