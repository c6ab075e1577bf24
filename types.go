package pdfcrypt

// Mode selects how anomalies that the format tolerates are reported.
type Mode int

const (
	// Strict treats out-of-range values and unsupported method tokens as
	// error-severity issues.
	Strict Mode = iota
	// Lenient downgrades unsupported_algorithm, unknown_version and
	// out_of_range to warnings so documents written against future format
	// revisions stay readable.
	Lenient
)

// Slot identifies which reference of the parent security handler points at a
// crypt filter dictionary. The slot is supplied by the caller; it is never
// stored in the dictionary itself.
type Slot int

const (
	// SlotNone validates the dictionary standalone, with no slot overrides.
	SlotNone Slot = iota
	// SlotStream marks the default stream filter reference (StmF).
	SlotStream
	// SlotString marks the default string filter reference (StrF).
	SlotString
	// SlotEmbeddedFile marks the embedded-file filter reference (EFF).
	SlotEmbeddedFile
	// SlotDecodeParms marks a per-stream Crypt filter decode parameter.
	SlotDecodeParms
)

// isDefaultFilter reports whether the slot carries the security handler's
// default stream/string filter, which forces AuthEvent to DocOpen.
func (s Slot) isDefaultFilter() bool {
	return s == SlotStream || s == SlotString
}

func (s Slot) String() string {
	switch s {
	case SlotNone:
		return "none"
	case SlotStream:
		return "stream"
	case SlotString:
		return "string"
	case SlotEmbeddedFile:
		return "embedded-file"
	case SlotDecodeParms:
		return "decode-parms"
	default:
		return "slot?"
	}
}

// ValidateOpt bundles the caller-supplied context for CryptFilter.Validate.
type ValidateOpt struct {
	Slot Slot
	Mode Mode
	// PublicKey marks the parent handler as a public-key security handler,
	// which flips Recipients from optional to required.
	PublicKey bool
}

// ParseOpt bundles tokenizer options.
type ParseOpt struct {
	// OnDuplicateKey controls duplicate dictionary keys: Ignore keeps the
	// last value silently, Warn keeps it and records an issue, Error rejects.
	OnDuplicateKey Severity
	MaxDepth       int
	MaxBytes       int64
	FailFast       bool
}
