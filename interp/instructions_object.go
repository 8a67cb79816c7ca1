package interp

import (
	"jcvm/frame"
	"jcvm/jcvmerr"
	"jcvm/object"
	"jcvm/store"
)

func init() {
	dispatch[opNew] = opNewExec
	dispatch[opCheckcast] = opCheckcastExec
	dispatch[opInstanceof] = opInstanceofExec
}

// opNewExec resolves the target class, computes its tagged-slot layout
// through the superclass chain, and allocates a fresh zero-initialized
// instance (spec §4.5 "Instance-field reference", §3 "Instance object").
func opNewExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	cpIndex, err := u2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	currentPkg := ip.Ctx.CurrentPackage()
	class, err := ip.Linker.ResolveClass(currentPkg, cpIndex)
	if err != nil {
		return 0, err
	}
	slots, err := ip.Linker.InstanceLayout(class)
	if err != nil {
		return 0, err
	}
	inst := object.NewInstance(class.Pkg, class.Offset, slots)
	ref := ip.Ctx.Heap.AllocInstance(inst)
	inst.Persistent = true
	inst.Tag = store.Object(ip.Ctx.AppletID(), false, ref.Index())
	if err := persistNewInstance(ip, inst); err != nil {
		return 0, err
	}
	if err := f.Push(frame.RefWord(ref)); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

// persistNewInstance writes inst's uninitialized on-store layout
// immediately (spec §3 "new ... written to the store immediately in the
// uninitialized layout"): the 0x04 header, then one child-tagged record
// per field slot, still holding its zero/uninitialized value. A nil
// Store (every test that drives opcodes directly without a backing
// store) leaves the heap-resident instance as the run's only copy.
func persistNewInstance(ip *Interpreter, inst *object.Instance) error {
	if ip.Store == nil {
		return nil
	}
	if err := ip.Store.Write(inst.Tag, object.EncodeInstanceHeader(inst)); err != nil {
		return err
	}
	for i := range inst.Slots {
		if err := ip.Store.Write(store.ArrayElement(inst.Tag, uint16(i)), object.EncodeUninitialized()); err != nil {
			return err
		}
	}
	return nil
}

// genericReferenceArrayAtype is the atype 14 "any reference array" form
// (spec §4.8's atype byte, 10..14): unlike the named-element checks, it
// asks only whether the object is a reference-kind array at all, not
// whether its declared element type matches anything in particular.
const genericReferenceArrayAtype = 14

// checkcastTarget decodes the shared atype-or-classref operand (spec
// §4.8 "Object / type"), returning either a concrete object.Type to run
// through object.AssignableTo, or isGenericRefArray=true for atype 14,
// which this core treats as its own special case rather than folding it
// into AssignableTo's element-matching rule.
func checkcastTarget(ip *Interpreter, f *frame.Frame, pc int) (t object.Type, isGenericRefArray bool, width int, err error) {
	atype, err := u1At(f, pc+1)
	if err != nil {
		return object.Type{}, false, 0, err
	}
	if atype == 0 {
		cpIndex, err := u2At(f, pc+2)
		if err != nil {
			return object.Type{}, false, 0, err
		}
		class, err := ip.Linker.ResolveClass(ip.Ctx.CurrentPackage(), cpIndex)
		if err != nil {
			return object.Type{}, false, 0, err
		}
		kind := object.TypeClass
		if ip.Linker.IsInterface(class) {
			kind = object.TypeInterface
		}
		return object.Type{Kind: kind, Class: class}, false, 4, nil
	}
	if atype == genericReferenceArrayAtype {
		return object.Type{}, true, 2, nil
	}
	prim, err := atypeKind(atype)
	if err != nil {
		return object.Type{}, false, 0, err
	}
	return object.Type{Kind: object.TypePrimitiveArray, Prim: prim}, false, 2, nil
}

// opCheckcastExec passes null through unchanged and raises class-cast
// on a failed check (spec §4.3 "checkcast vs. instanceof").
func opCheckcastExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	target, isGenericRefArray, width, err := checkcastTarget(ip, f, pc)
	if err != nil {
		return 0, err
	}
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if w.Ref.IsNull() {
		if err := f.Push(w); err != nil {
			return 0, err
		}
		return pc + width, nil
	}
	ok, err := checkcastMatches(ip, w.Ref, target, isGenericRefArray)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, jcvmerr.New(jcvmerr.KindClassCast, "object not assignable to target type")
	}
	if err := f.Push(w); err != nil {
		return 0, err
	}
	return pc + width, nil
}

// opInstanceofExec returns 0 for null and otherwise 1/0 (spec §4.3).
func opInstanceofExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	target, isGenericRefArray, width, err := checkcastTarget(ip, f, pc)
	if err != nil {
		return 0, err
	}
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	var result int16
	if !w.Ref.IsNull() {
		ok, err := checkcastMatches(ip, w.Ref, target, isGenericRefArray)
		if err != nil {
			return 0, err
		}
		if ok {
			result = 1
		}
	}
	if err := f.Push(frame.ShortWord(result)); err != nil {
		return 0, err
	}
	return pc + width, nil
}

func checkcastMatches(ip *Interpreter, ref object.Reference, target object.Type, isGenericRefArray bool) (bool, error) {
	srcType, err := elementType(ip, ref)
	if err != nil {
		return false, err
	}
	if isGenericRefArray {
		return srcType.Kind == object.TypeReferenceArray, nil
	}
	return object.AssignableTo(ip.Linker, srcType, target), nil
}
