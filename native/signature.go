package native

import (
	"jcvm/context"
	"jcvm/frame"

	"go.mozilla.org/pkcs7"
)

// verifySignature implements the one concrete cryptographic native
// named by spec §6.3: pop a byte-array reference holding a DER-encoded
// PKCS#7 SignedData blob, verify it against the certificate chain
// embedded in the blob itself, and push 1/0.
func verifySignature(ctx *context.Context, f *frame.Frame) error {
	w, err := f.Pop()
	if err != nil {
		return err
	}
	a, err := ctx.Heap.ResolveArray(w.Ref)
	if err != nil {
		return err
	}
	var result int16
	if p7, err := pkcs7.Parse(a.Bytes); err == nil && p7.Verify() == nil {
		result = 1
	}
	return f.Push(frame.ShortWord(result))
}
