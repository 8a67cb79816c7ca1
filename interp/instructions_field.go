package interp

import (
	"jcvm/frame"
	"jcvm/object"
)

func init() {
	dispatch[opGetfieldA] = getFieldNarrow(getRefField)
	dispatch[opGetfieldAW] = getFieldWide(getRefField)
	dispatch[opGetfieldAThis] = getFieldThis(getRefField)
	dispatch[opPutfieldA] = putFieldNarrow(setRefField)
	dispatch[opPutfieldAW] = putFieldWide(setRefField)
	dispatch[opPutfieldAThis] = putFieldThis(setRefField)

	dispatch[opGetfieldB] = getFieldNarrow(getByteField)
	dispatch[opGetfieldBW] = getFieldWide(getByteField)
	dispatch[opGetfieldBThis] = getFieldThis(getByteField)
	dispatch[opPutfieldB] = putFieldNarrow(setByteField)
	dispatch[opPutfieldBW] = putFieldWide(setByteField)
	dispatch[opPutfieldBThis] = putFieldThis(setByteField)

	dispatch[opGetfieldS] = getFieldNarrow(getShortField)
	dispatch[opGetfieldSW] = getFieldWide(getShortField)
	dispatch[opGetfieldSThis] = getFieldThis(getShortField)
	dispatch[opPutfieldS] = putFieldNarrow(setShortField)
	dispatch[opPutfieldSW] = putFieldWide(setShortField)
	dispatch[opPutfieldSThis] = putFieldThis(setShortField)

	dispatch[opGetfieldI] = getFieldNarrow(getIntField)
	dispatch[opGetfieldIW] = getFieldWide(getIntField)
	dispatch[opGetfieldIThis] = getFieldThis(getIntField)
	dispatch[opPutfieldI] = putFieldNarrow(setIntField)
	dispatch[opPutfieldIW] = putFieldWide(setIntField)
	dispatch[opPutfieldIThis] = putFieldThis(setIntField)

	dispatch[opGetstaticA] = getStatic(getRefField)
	dispatch[opPutstaticA] = putStatic(setRefField)
	dispatch[opGetstaticB] = getStatic(getByteField)
	dispatch[opPutstaticB] = putStatic(setByteField)
	dispatch[opGetstaticS] = getStatic(getShortField)
	dispatch[opPutstaticS] = putStatic(setShortField)
	dispatch[opGetstaticI] = getStatic(getIntField)
	dispatch[opPutstaticI] = putStatic(setIntField)
}

// fieldGetter/fieldSetter adapt one width's Instance accessor to a
// uniform signature so the narrow/_w/_this and static forms can share
// one body per direction (spec §4.8 "Fields": "per-width families...
// each in three forms").
type fieldGetter func(inst *object.Instance, slot int) (frame.Word, error)
type fieldSetter func(inst *object.Instance, slot int, w frame.Word) error

func getRefField(inst *object.Instance, slot int) (frame.Word, error) {
	v, err := inst.GetRef(slot)
	return frame.RefWord(v), err
}

func setRefField(inst *object.Instance, slot int, w frame.Word) error {
	return inst.SetRef(slot, w.Ref)
}

func getByteField(inst *object.Instance, slot int) (frame.Word, error) {
	v, err := inst.GetByte(slot)
	return frame.ShortWord(int16(v)), err
}

func setByteField(inst *object.Instance, slot int, w frame.Word) error {
	return inst.SetByte(slot, int8(w.Short))
}

func getShortField(inst *object.Instance, slot int) (frame.Word, error) {
	v, err := inst.GetShort(slot)
	return frame.ShortWord(v), err
}

func setShortField(inst *object.Instance, slot int, w frame.Word) error {
	return inst.SetShort(slot, w.Short)
}

func getIntField(inst *object.Instance, slot int) (frame.Word, error) {
	v, err := inst.GetInt(slot)
	return frame.IntWord(v), err
}

func setIntField(inst *object.Instance, slot int, w frame.Word) error {
	return inst.SetInt(slot, w.Int)
}

// instanceFieldSlot resolves the instance-field constant-pool entry
// cpIndex and the receiver to the instance and slot index (spec §4.5's field-token to
// slot-index rule).
func instanceFieldSlot(ip *Interpreter, f *frame.Frame, cpIndex uint16, receiver object.Reference) (*object.Instance, int, error) {
	_, slot, err := ip.Linker.ResolveInstanceField(ip.Ctx.CurrentPackage(), cpIndex)
	if err != nil {
		return nil, 0, err
	}
	inst, err := ip.Ctx.Heap.ResolveInstance(receiver)
	if err != nil {
		return nil, 0, err
	}
	return inst, slot, nil
}

// getFieldNarrow: one-byte cp index, receiver explicit on the stack.
func getFieldNarrow(get fieldGetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u1At(f, pc+1)
		if err != nil {
			return 0, err
		}
		wr, err := f.Pop()
		if err != nil {
			return 0, err
		}
		inst, slot, err := instanceFieldSlot(ip, f, uint16(cpIndex), wr.Ref)
		if err != nil {
			return 0, err
		}
		v, err := get(inst, slot)
		if err != nil {
			return 0, err
		}
		if err := f.Push(v); err != nil {
			return 0, err
		}
		return pc + 2, nil
	}
}

// getFieldWide: _w form, two-byte cp index.
func getFieldWide(get fieldGetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		wr, err := f.Pop()
		if err != nil {
			return 0, err
		}
		inst, slot, err := instanceFieldSlot(ip, f, cpIndex, wr.Ref)
		if err != nil {
			return 0, err
		}
		v, err := get(inst, slot)
		if err != nil {
			return 0, err
		}
		if err := f.Push(v); err != nil {
			return 0, err
		}
		return pc + 3, nil
	}
}

// getFieldThis: receiver is implicitly local 0, two-byte cp index
// follows (this core's _this forms still name the field; only the
// receiver is implicit).
func getFieldThis(get fieldGetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		recv, err := f.Local(0)
		if err != nil {
			return 0, err
		}
		inst, slot, err := instanceFieldSlot(ip, f, cpIndex, recv.Ref)
		if err != nil {
			return 0, err
		}
		v, err := get(inst, slot)
		if err != nil {
			return 0, err
		}
		if err := f.Push(v); err != nil {
			return 0, err
		}
		return pc + 3, nil
	}
}

func putFieldNarrow(set fieldSetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u1At(f, pc+1)
		if err != nil {
			return 0, err
		}
		wv, err := f.Pop()
		if err != nil {
			return 0, err
		}
		wr, err := f.Pop()
		if err != nil {
			return 0, err
		}
		inst, slot, err := instanceFieldSlot(ip, f, uint16(cpIndex), wr.Ref)
		if err != nil {
			return 0, err
		}
		if err := set(inst, slot, wv); err != nil {
			return 0, err
		}
		return pc + 2, nil
	}
}

func putFieldWide(set fieldSetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		wv, err := f.Pop()
		if err != nil {
			return 0, err
		}
		wr, err := f.Pop()
		if err != nil {
			return 0, err
		}
		inst, slot, err := instanceFieldSlot(ip, f, cpIndex, wr.Ref)
		if err != nil {
			return 0, err
		}
		if err := set(inst, slot, wv); err != nil {
			return 0, err
		}
		return pc + 3, nil
	}
}

func putFieldThis(set fieldSetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		wv, err := f.Pop()
		if err != nil {
			return 0, err
		}
		recv, err := f.Local(0)
		if err != nil {
			return 0, err
		}
		inst, slot, err := instanceFieldSlot(ip, f, cpIndex, recv.Ref)
		if err != nil {
			return 0, err
		}
		if err := set(inst, slot, wv); err != nil {
			return 0, err
		}
		return pc + 3, nil
	}
}

func getStatic(get fieldGetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		pkgID, offset, err := ip.Linker.ResolveStaticField(ip.Ctx.CurrentPackage(), cpIndex)
		if err != nil {
			return 0, err
		}
		area, err := ip.Linker.StaticsOf(pkgID)
		if err != nil {
			return 0, err
		}
		v, err := get(area, int(offset))
		if err != nil {
			return 0, err
		}
		if err := f.Push(v); err != nil {
			return 0, err
		}
		return pc + 3, nil
	}
}

func putStatic(set fieldSetter) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		cpIndex, err := u2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		wv, err := f.Pop()
		if err != nil {
			return 0, err
		}
		pkgID, offset, err := ip.Linker.ResolveStaticField(ip.Ctx.CurrentPackage(), cpIndex)
		if err != nil {
			return 0, err
		}
		area, err := ip.Linker.StaticsOf(pkgID)
		if err != nil {
			return 0, err
		}
		if err := set(area, int(offset), wv); err != nil {
			return 0, err
		}
		return pc + 3, nil
	}
}
