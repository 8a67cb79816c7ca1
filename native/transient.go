package native

import (
	"jcvm/context"
	"jcvm/frame"
	"jcvm/object"
)

// makeTransient implements the five makeTransientXxxArray constructors
// (spec §6.3): pop the clear-event byte then the length, allocate a
// transient array of kind, and push its reference.
func makeTransient(kind object.PrimKind) Fn {
	return func(ctx *context.Context, f *frame.Frame) error {
		event, err := f.Pop()
		if err != nil {
			return err
		}
		length, err := f.Pop()
		if err != nil {
			return err
		}
		a := object.NewTransientArray(kind, uint16(length.Short), 0, object.ClearEvent(event.Short))
		ref := ctx.Heap.AllocArray(a)
		return f.Push(frame.RefWord(ref))
	}
}

// makeGlobalArray allocates a byte array visible across applet
// contexts (spec §6.3's "transient-array constructors ... global").
// This core has one heap per run, so a global array is otherwise an
// ordinary never-cleared transient array.
func makeGlobalArray(ctx *context.Context, f *frame.Frame) error {
	length, err := f.Pop()
	if err != nil {
		return err
	}
	a := object.NewTransientArray(object.KindByte, uint16(length.Short), 0, object.ClearNone)
	ref := ctx.Heap.AllocArray(a)
	return f.Push(frame.RefWord(ref))
}

// clearArray wipes a transient array's contents unconditionally,
// regardless of its declared ClearEvent (spec §6.3 "clearArray").
func clearArray(ctx *context.Context, f *frame.Frame) error {
	w, err := f.Pop()
	if err != nil {
		return err
	}
	a, err := ctx.Heap.ResolveArray(w.Ref)
	if err != nil {
		return err
	}
	a.ClearAll()
	return nil
}
