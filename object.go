package pdfcrypt

import (
	"fmt"
	"sort"
	"strconv"
)

// Kind enumerates the value kinds that can appear in a dictionary entry.
type Kind uint8

const (
	KindName Kind = iota
	KindInteger
	KindBoolean
	KindString
	KindArray
	KindReference
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	case KindDict:
		return "dict"
	default:
		return fmt.Sprintf("kind#%d", uint8(k))
	}
}

// KindSet is a bit set of kinds, used by schema constraints that accept more
// than one kind (e.g. Recipients: array-of-string or single string).
type KindSet uint16

// Of builds a KindSet from individual kinds.
func Of(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is a member of the set.
func (s KindSet) Has(k Kind) bool { return s&(1<<k) != 0 }

func (s KindSet) String() string {
	var out string
	for k := KindName; k <= KindDict; k++ {
		if !s.Has(k) {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += k.String()
	}
	return out
}

// Object is a value in the document object graph. The set of implementations
// is closed; callers switch on Kind or type-assert to the concrete types.
type Object interface {
	Kind() Kind
	appendTo(dst []byte) []byte
}

// Name is a name token. On the wire it is written with a leading slash and
// #xx escapes for delimiter and non-regular bytes.
type Name string

// Integer is a decimal integer value.
type Integer int64

// Boolean is written as the keywords true / false.
type Boolean bool

// String is an opaque byte string. Recipient blobs and similar binary data
// are carried here without interpretation.
type String []byte

// Array is an ordered heterogeneous list of objects.
type Array []Object

// Reference points at an indirect object by number and generation.
type Reference struct {
	Number     uint32
	Generation uint16
}

// Dict is a generic named-field container: the node type that descriptors
// wrap. A nil Dict behaves like an empty, read-only one.
type Dict map[Name]Object

func (Name) Kind() Kind      { return KindName }
func (Integer) Kind() Kind   { return KindInteger }
func (Boolean) Kind() Kind   { return KindBoolean }
func (String) Kind() Kind    { return KindString }
func (Array) Kind() Kind     { return KindArray }
func (Reference) Kind() Kind { return KindReference }
func (Dict) Kind() Kind      { return KindDict }

// Get returns the entry stored under key, if any.
func (d Dict) Get(key Name) (Object, bool) {
	obj, ok := d[key]
	return obj, ok
}

// Set stores value under key, replacing any previous entry.
func (d Dict) Set(key Name, value Object) { d[key] = value }

// Has reports whether an entry exists under key.
func (d Dict) Has(key Name) bool {
	_, ok := d[key]
	return ok
}

// Delete removes the entry stored under key.
func (d Dict) Delete(key Name) { delete(d, key) }

// Keys returns the dictionary keys in sorted order, for deterministic
// iteration and serialization.
func (d Dict) Keys() []Name {
	keys := make([]Name, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of entries.
func (d Dict) Len() int { return len(d) }

// Format renders an object in its canonical wire form.
func Format(obj Object) string {
	if obj == nil {
		return "null"
	}
	return string(AppendObject(nil, obj))
}

func (n Name) String() string      { return Format(n) }
func (i Integer) String() string   { return strconv.FormatInt(int64(i), 10) }
func (b Boolean) String() string   { return Format(b) }
func (s String) String() string    { return Format(s) }
func (a Array) String() string     { return Format(a) }
func (r Reference) String() string { return Format(r) }
func (d Dict) String() string      { return Format(d) }
