// Package pdfcrypt models the encryption descriptors of a PDF-style document
// format:
//
// - A small object model (Name/Integer/Boolean/String/Array/Reference/Dict)
//   with canonical, deterministic serialization
// - Schema-driven validation of crypt filter dictionaries via an explicit
//   constraint registry (kind, required, default per key)
// - A stable error model via Issues (path, code, severity, message)
// - Strict and lenient validation modes plus slot-dependent overrides
//   supplied by the referencing security handler
//
// Design policy:
// - Keep only public APIs in the root package; put the tokenizer and its
//   enforcement layer under internal/syntax.
// - Place wire/domain codecs under codec/ and the CLI under cmd/pdfcrypt.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	dict, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(data))
//	cf := pdfcrypt.AsCryptFilter(dict)
//	iss := cf.Validate(pdfcrypt.ValidateOpt{Slot: pdfcrypt.SlotStream})
//
// The package records which cryptographic method applies; it never performs
// encryption or key derivation itself.
package pdfcrypt
