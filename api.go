package pdfcrypt

import "context"

// Codec performs bidirectional transformation and validation between the
// wire representation A and the domain representation B. Implementations
// live under codec/.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error) // A -> validate -> B
	Encode(ctx context.Context, b B) (A, error) // B -> validate -> canonical A
}
