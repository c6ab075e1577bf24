package codec

import (
	"context"

	pdfcrypt "github.com/prepare/pdfcrypt"
)

// Filter is the domain-side view of a crypt filter dictionary: the decoded
// selection a cipher layer consumes, with defaults already applied.
type Filter struct {
	Method          pdfcrypt.Method
	RawMethod       string // stored CFM token; diagnostic for MethodUnsupported
	KeyBits         int    // 0 when the dictionary carries no Length entry
	AuthEvent       pdfcrypt.AuthEvent
	EncryptMetadata bool
	Recipients      [][]byte
}

// CryptFilter returns the Codec between wire dictionaries and Filter values.
// Decode applies schema defaults; Encode emits the canonical dictionary with
// default-valued entries omitted.
func CryptFilter() pdfcrypt.Codec[pdfcrypt.Dict, Filter] {
	return cryptFilterCodec{}
}

type cryptFilterCodec struct{}

func (cryptFilterCodec) Decode(ctx context.Context, d pdfcrypt.Dict) (Filter, error) {
	cf := pdfcrypt.AsCryptFilter(d)
	var out Filter

	m, err := cf.Method()
	if err != nil {
		return out, err
	}
	out.Method = m.Method
	out.RawMethod = string(m.Raw)

	bits, _, err := cf.KeyLength()
	if err != nil {
		return out, err
	}
	out.KeyBits = bits

	ev, err := cf.AuthEvent(false)
	if err != nil {
		return out, err
	}
	out.AuthEvent = ev

	em, err := cf.EncryptMetadata()
	if err != nil {
		return out, err
	}
	out.EncryptMetadata = em

	recs, err := cf.Recipients()
	if err != nil {
		return out, err
	}
	for _, r := range recs {
		out.Recipients = append(out.Recipients, []byte(r))
	}
	return out, nil
}

func (cryptFilterCodec) Encode(ctx context.Context, f Filter) (pdfcrypt.Dict, error) {
	cf := pdfcrypt.NewCryptFilter()

	if f.Method != pdfcrypt.MethodNone {
		tok := pdfcrypt.Name(f.Method.String())
		if f.Method == pdfcrypt.MethodUnsupported {
			tok = pdfcrypt.Name(f.RawMethod)
		}
		if err := cf.Set(pdfcrypt.KeyCFM, tok); err != nil {
			return nil, err
		}
	}
	if f.KeyBits != 0 {
		if err := cf.Set(pdfcrypt.KeyLength, pdfcrypt.Integer(f.KeyBits)); err != nil {
			return nil, err
		}
		// reject out-of-range lengths before they reach the wire
		if _, _, err := cf.KeyLength(); err != nil {
			return nil, err
		}
	}
	if f.AuthEvent != "" && f.AuthEvent != pdfcrypt.EventDocOpen {
		if err := cf.Set(pdfcrypt.KeyAuthEvent, pdfcrypt.Name(f.AuthEvent)); err != nil {
			return nil, err
		}
	}
	if !f.EncryptMetadata {
		if err := cf.Set(pdfcrypt.KeyEncryptMetadata, pdfcrypt.Boolean(false)); err != nil {
			return nil, err
		}
	}
	switch len(f.Recipients) {
	case 0:
	case 1:
		if err := cf.Set(pdfcrypt.KeyRecipients, pdfcrypt.String(f.Recipients[0])); err != nil {
			return nil, err
		}
	default:
		arr := make(pdfcrypt.Array, 0, len(f.Recipients))
		for _, r := range f.Recipients {
			arr = append(arr, pdfcrypt.String(r))
		}
		if err := cf.Set(pdfcrypt.KeyRecipients, arr); err != nil {
			return nil, err
		}
	}
	return cf.Node(), nil
}
