// Package native implements the impdep1 native-call contract of spec
// §6.3: a table of 16-bit identifiers, each bound to a host function
// run synchronously to completion against the current execution
// context.
package native

import (
	"jcvm/context"
	"jcvm/frame"
	"jcvm/jcvmerr"
	"jcvm/object"
)

// Fn is the signature every native identifier is bound to (spec §6.3:
// "invokes the host function of that identifier with the current
// execution context").
type Fn func(ctx *context.Context, f *frame.Frame) error

// Identifiers named by spec §6.3. Most are registered as stubs;
// VerifySignature and the transient-array family are given real bodies
// (see signature.go and transient.go).
const (
	IDArrayCopy uint16 = iota + 1
	IDArrayCopyNonAtomic
	IDArrayFill
	IDArrayFillNonAtomic
	IDArrayCompare
	IDArrayFind
	IDTransactionBegin
	IDTransactionCommit
	IDTransactionAbort
	IDTransactionDepth
	IDTransactionCapacity
	IDMakeTransientBooleanArray
	IDMakeTransientByteArray
	IDMakeTransientShortArray
	IDMakeTransientIntArray
	IDMakeTransientObjectArray
	IDMakeGlobalArray
	IDClearArray
	IDAppletSelecting
	IDAppletAID
	IDAppletActive
	IDPreviousContextAID
	IDAvailableMemory
	IDShareableObject
	IDChannelAccessor
	IDObjectDeletionSupported
	IDObjectDeletionRequest
	IDIsTransient
	IDIntegrityAllocator
	IDVerifySignature
)

// Table binds identifiers to their host functions.
type Table struct {
	fns map[uint16]Fn
}

// NewTable returns a table with every §6.3 identifier registered,
// mostly as not-yet-implemented stubs.
func NewTable() *Table {
	t := &Table{fns: make(map[uint16]Fn)}

	stub := func(name string) Fn {
		return func(ctx *context.Context, f *frame.Frame) error {
			return jcvmerr.New(jcvmerr.KindNotYetImplemented, "native %s", name)
		}
	}

	t.fns[IDArrayCopy] = stub("array-copy")
	t.fns[IDArrayCopyNonAtomic] = stub("array-copy-non-atomic")
	t.fns[IDArrayFill] = stub("array-fill")
	t.fns[IDArrayFillNonAtomic] = stub("array-fill-non-atomic")
	t.fns[IDArrayCompare] = stub("array-compare")
	t.fns[IDArrayFind] = stub("array-find")
	t.fns[IDTransactionBegin] = stub("transaction-begin")
	t.fns[IDTransactionCommit] = stub("transaction-commit")
	t.fns[IDTransactionAbort] = stub("transaction-abort")
	t.fns[IDTransactionDepth] = stub("transaction-depth")
	t.fns[IDTransactionCapacity] = stub("transaction-capacity")
	t.fns[IDAppletSelecting] = stub("applet-selecting-predicate")
	t.fns[IDAppletAID] = stub("applet-aid-accessor")
	t.fns[IDAppletActive] = stub("applet-active-predicate")
	t.fns[IDPreviousContextAID] = stub("previous-context-aid")
	t.fns[IDAvailableMemory] = stub("available-memory-query")
	t.fns[IDShareableObject] = stub("shareable-object-accessor")
	t.fns[IDChannelAccessor] = stub("channel-accessor")
	t.fns[IDObjectDeletionSupported] = stub("object-deletion-supported")
	t.fns[IDObjectDeletionRequest] = stub("object-deletion-request")
	t.fns[IDIsTransient] = stub("is-transient-predicate")
	t.fns[IDIntegrityAllocator] = stub("integrity-sensitive-allocator")

	t.fns[IDMakeTransientBooleanArray] = makeTransient(object.KindBoolean)
	t.fns[IDMakeTransientByteArray] = makeTransient(object.KindByte)
	t.fns[IDMakeTransientShortArray] = makeTransient(object.KindShort)
	t.fns[IDMakeTransientIntArray] = makeTransient(object.KindInt)
	t.fns[IDMakeTransientObjectArray] = makeTransient(object.KindReference)
	t.fns[IDMakeGlobalArray] = makeGlobalArray
	t.fns[IDClearArray] = clearArray

	t.fns[IDVerifySignature] = verifySignature

	return t
}

// Register overrides or adds a binding, letting an embedder supply a
// real body for an identifier this core only stubs (spec §1: "modeled
// as named host functions").
func (t *Table) Register(id uint16, fn Fn) {
	t.fns[id] = fn
}

// Call invokes the host function bound to id.
func (t *Table) Call(id uint16, ctx *context.Context, f *frame.Frame) error {
	fn, ok := t.fns[id]
	if !ok {
		return jcvmerr.New(jcvmerr.KindNotYetImplemented, "native identifier %d not registered", id)
	}
	return fn(ctx, f)
}
