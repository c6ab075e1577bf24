package jsonschema

import (
	pdfcrypt "github.com/prepare/pdfcrypt"
)

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// FromRegistry projects a constraint registry into a JSON Schema document.
// Name and string kinds map to "string", integers to "integer", booleans to
// "boolean"; multi-kind constraints become a oneOf. Unknown keys stay open
// (additionalProperties true) because the registry tolerates them.
func FromRegistry(reg *pdfcrypt.Registry) *Schema {
	out := &Schema{
		Type:                 "object",
		Properties:           map[string]*Schema{},
		AdditionalProperties: true,
	}
	for _, key := range reg.Keys() {
		c, _ := reg.LookupConstraint(key)
		prop := kindSchema(c.Kinds)
		if c.Default != nil {
			prop.Default = defaultValue(c.Default)
		}
		out.Properties[string(key)] = prop
		if c.Required {
			out.Required = append(out.Required, string(key))
		}
	}
	return out
}

func kindSchema(ks pdfcrypt.KindSet) *Schema {
	var parts []*Schema
	for k := pdfcrypt.KindName; k <= pdfcrypt.KindDict; k++ {
		if !ks.Has(k) {
			continue
		}
		parts = append(parts, &Schema{Type: typeName(k), Format: formatName(k)})
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return &Schema{OneOf: parts}
}

func typeName(k pdfcrypt.Kind) string {
	switch k {
	case pdfcrypt.KindName, pdfcrypt.KindString:
		return "string"
	case pdfcrypt.KindInteger:
		return "integer"
	case pdfcrypt.KindBoolean:
		return "boolean"
	case pdfcrypt.KindArray:
		return "array"
	case pdfcrypt.KindDict:
		return "object"
	case pdfcrypt.KindReference:
		return "string"
	default:
		return ""
	}
}

func formatName(k pdfcrypt.Kind) string {
	switch k {
	case pdfcrypt.KindName:
		return "name"
	case pdfcrypt.KindString:
		return "byte-string"
	case pdfcrypt.KindReference:
		return "reference"
	default:
		return ""
	}
}

func defaultValue(obj pdfcrypt.Object) any {
	switch v := obj.(type) {
	case pdfcrypt.Name:
		return string(v)
	case pdfcrypt.Integer:
		return int64(v)
	case pdfcrypt.Boolean:
		return bool(v)
	default:
		return pdfcrypt.Format(obj)
	}
}
