// Package interp implements the bytecode dispatcher of spec §4.8–4.9: a
// 256-entry opcode decode table and the per-instruction semantics,
// driven by Interpreter.Run until the frame stack empties.
package interp

import (
	"encoding/binary"

	"jcvm/context"
	"jcvm/frame"
	"jcvm/jcvmerr"
	"jcvm/native"
	"jcvm/object"
	"jcvm/resolve"
	"jcvm/store"
)

// handler executes one instruction at f.SavedPC() and returns the next
// program counter (spec §4.8: "Decode is a table lookup").
type handler func(ip *Interpreter, f *frame.Frame) (int, error)

var dispatch [256]handler

// Interpreter drives bytecode execution over one Context, resolving
// constant-pool references through Linker and dispatching native calls
// through Natives.
type Interpreter struct {
	Ctx     *context.Context
	Linker  *resolve.Linker
	Natives *native.Table

	// Store backs every persistent object/array this interpreter's
	// new/newarray/anewarray allocate (spec §3 "Persistent vs.
	// transient", §6.1/§6.2). Nil is valid for tests that never exercise
	// a persistent allocation path.
	Store store.Store
}

// New returns an interpreter over ctx, persisting new objects through s.
func New(ctx *context.Context, linker *resolve.Linker, natives *native.Table, s store.Store) *Interpreter {
	return &Interpreter{Ctx: ctx, Linker: linker, Natives: natives, Store: s}
}

// thrown carries a live exception reference unwinding the frame stack,
// distinct from a jcvmerr.Fault: athrow's target is a heap object, not a
// Go error value (spec §4.8 "Exception").
type thrown struct {
	ref object.Reference
}

func (t *thrown) Error() string { return "uncaught exception" }

// Run drives the interpreter until the frame stack empties (spec §6.4).
func (ip *Interpreter) Run() error {
	for {
		f := ip.Ctx.Frames.Current()
		if f == nil {
			return nil
		}
		pc := f.SavedPC()
		if pc < 0 || pc >= len(f.Code) {
			return jcvmerr.New(jcvmerr.KindSecurity, "program counter %d out of range", pc)
		}
		opcode := f.Code[pc]
		h := dispatch[opcode]
		if h == nil {
			return jcvmerr.New(jcvmerr.KindSecurity, "unsupported opcode 0x%02X", opcode)
		}
		next, err := h(ip, f)
		if err != nil {
			if exc, ok := err.(*thrown); ok {
				if err := ip.unwind(exc); err != nil {
					return err
				}
				continue
			}
			return err
		}
		f.SetSavedPC(next)
	}
}

// --- operand fetch helpers ---

func u1At(f *frame.Frame, pc int) (byte, error) {
	if pc < 0 || pc >= len(f.Code) {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "operand fetch out of range")
	}
	return f.Code[pc], nil
}

func s1At(f *frame.Frame, pc int) (int8, error) {
	b, err := u1At(f, pc)
	return int8(b), err
}

func u2At(f *frame.Frame, pc int) (uint16, error) {
	if pc < 0 || pc+2 > len(f.Code) {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "operand fetch out of range")
	}
	return binary.BigEndian.Uint16(f.Code[pc:]), nil
}

func s2At(f *frame.Frame, pc int) (int16, error) {
	v, err := u2At(f, pc)
	return int16(v), err
}

func u4At(f *frame.Frame, pc int) (uint32, error) {
	if pc < 0 || pc+4 > len(f.Code) {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "operand fetch out of range")
	}
	return binary.BigEndian.Uint32(f.Code[pc:]), nil
}

func s4At(f *frame.Frame, pc int) (int32, error) {
	v, err := u4At(f, pc)
	return int32(v), err
}

// athrow, invoke, and return share the package-stack/frame-stack
// transition helpers below.

func (ip *Interpreter) unwind(exc *thrown) error {
	for {
		f := ip.Ctx.Frames.Current()
		if f == nil {
			return jcvmerr.New(jcvmerr.KindRuntime, "uncaught exception: VM exits")
		}
		handlerPC, found, err := ip.findHandler(f, exc.ref)
		if err != nil {
			return err
		}
		if found {
			for f.OperandDepth() > 0 {
				if _, err := f.Pop(); err != nil {
					return err
				}
			}
			if err := f.Push(frame.RefWord(exc.ref)); err != nil {
				return err
			}
			f.SetSavedPC(handlerPC)
			return nil
		}
		if err := ip.Ctx.Frames.PopFrame(); err != nil {
			return err
		}
		if err := ip.Ctx.Return(); err != nil {
			return err
		}
	}
}

// findHandler implements spec §4.8's athrow search: locate an
// exception-table entry in f's method whose [StartPC, EndPC) range
// covers the current PC and whose catch type is assignable from the
// thrown object's class.
func (ip *Interpreter) findHandler(f *frame.Frame, excRef object.Reference) (int, bool, error) {
	img, err := ip.Linker.Image(f.PackageID)
	if err != nil {
		return 0, false, err
	}
	method, ok := img.Method.Methods[int(f.MethodOffset)]
	if !ok {
		return 0, false, jcvmerr.New(jcvmerr.KindSecurity, "no method header for active frame")
	}
	inst, err := ip.Ctx.Heap.ResolveInstance(excRef)
	if err != nil {
		return 0, false, err
	}
	excClass := object.ClassRef{Pkg: inst.PackageID, Offset: inst.ClassIndex}
	pc := f.SavedPC()
	for _, h := range method.ExceptionHandlers {
		if uint16(pc) < h.StartPC || uint16(pc) >= h.EndPC {
			continue
		}
		catchType := object.ClassRef{IsObject: true}
		if h.CatchTypeIndex != 0 {
			catchType, err = ip.Linker.ResolveClass(f.PackageID, h.CatchTypeIndex)
			if err != nil {
				return 0, false, err
			}
		}
		sType := object.Type{Kind: object.TypeClass, Class: excClass}
		tType := object.Type{Kind: object.TypeClass, Class: catchType}
		if object.AssignableTo(ip.Linker, sType, tType) {
			return int(h.HandlerPC), true, nil
		}
	}
	return 0, false, nil
}
