package pdfcrypt

import "strconv"

// AppendObject appends the canonical wire form of obj to dst and returns the
// extended slice. The output is deterministic: dictionary keys are written in
// sorted order, binary-heavy strings are written as hex strings, and name
// escapes always use two uppercase hex digits. Parsing canonical output
// yields an equal object graph.
func AppendObject(dst []byte, obj Object) []byte {
	if obj == nil {
		return append(dst, "null"...)
	}
	return obj.appendTo(dst)
}

const hexDigits = "0123456789ABCDEF"

// nameNeedsEscape reports bytes that must be written as #xx inside a name
// token: delimiters, whitespace, '#', and anything outside printable ASCII.
func nameNeedsEscape(c byte) bool {
	if c < 0x21 || c > 0x7e {
		return true
	}
	switch c {
	case '#', '/', '%', '(', ')', '<', '>', '[', ']', '{', '}':
		return true
	}
	return false
}

func (n Name) appendTo(dst []byte) []byte {
	dst = append(dst, '/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if nameNeedsEscape(c) {
			dst = append(dst, '#', hexDigits[c>>4], hexDigits[c&0xf])
			continue
		}
		dst = append(dst, c)
	}
	return dst
}

func (i Integer) appendTo(dst []byte) []byte {
	return strconv.AppendInt(dst, int64(i), 10)
}

func (b Boolean) appendTo(dst []byte) []byte {
	if b {
		return append(dst, "true"...)
	}
	return append(dst, "false"...)
}

// stringNeedsHex selects the hex form for strings holding bytes outside
// printable ASCII. Recipient blobs are binary and always end up here.
func stringNeedsHex(s String) bool {
	for _, c := range s {
		if c < 0x20 || c > 0x7e {
			return true
		}
	}
	return false
}

func (s String) appendTo(dst []byte) []byte {
	if stringNeedsHex(s) {
		dst = append(dst, '<')
		for _, c := range s {
			dst = append(dst, hexDigits[c>>4], hexDigits[c&0xf])
		}
		return append(dst, '>')
	}
	dst = append(dst, '(')
	for _, c := range s {
		switch c {
		case '\\', '(', ')':
			dst = append(dst, '\\', c)
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, ')')
}

func (a Array) appendTo(dst []byte) []byte {
	dst = append(dst, '[')
	for i, obj := range a {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = AppendObject(dst, obj)
	}
	return append(dst, ']')
}

func (r Reference) appendTo(dst []byte) []byte {
	dst = strconv.AppendUint(dst, uint64(r.Number), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(r.Generation), 10)
	return append(dst, " R"...)
}

func (d Dict) appendTo(dst []byte) []byte {
	dst = append(dst, "<<"...)
	for _, k := range d.Keys() {
		dst = append(dst, ' ')
		dst = k.appendTo(dst)
		dst = append(dst, ' ')
		dst = AppendObject(dst, d[k])
	}
	return append(dst, " >>"...)
}
