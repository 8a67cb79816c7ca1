package interp

import (
	"jcvm/frame"
	"jcvm/object"
)

func init() {
	dispatch[opNop] = opNopExec
	dispatch[opAconstNull] = opAconstNullExec

	dispatch[opSconstM1] = shortConst(-1)
	dispatch[opSconst0] = shortConst(0)
	dispatch[opSconst1] = shortConst(1)
	dispatch[opSconst2] = shortConst(2)
	dispatch[opSconst3] = shortConst(3)
	dispatch[opSconst4] = shortConst(4)
	dispatch[opSconst5] = shortConst(5)

	dispatch[opIconstM1] = intConst(-1)
	dispatch[opIconst0] = intConst(0)
	dispatch[opIconst1] = intConst(1)
	dispatch[opIconst2] = intConst(2)
	dispatch[opIconst3] = intConst(3)
	dispatch[opIconst4] = intConst(4)
	dispatch[opIconst5] = intConst(5)

	dispatch[opBspush] = opBspushExec
	dispatch[opSspush] = opSspushExec
	dispatch[opBipush] = opBipushExec
	dispatch[opSipush] = opSipushExec
	dispatch[opIipush] = opIipushExec
}

func opNopExec(ip *Interpreter, f *frame.Frame) (int, error) {
	return f.SavedPC() + 1, nil
}

func opAconstNullExec(ip *Interpreter, f *frame.Frame) (int, error) {
	if err := f.Push(frame.RefWord(object.NullReference)); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

// shortConst builds a zero-operand handler pushing a fixed short value,
// shared by every sconst_* mnemonic.
func shortConst(v int16) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		if err := f.Push(frame.ShortWord(v)); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

// intConst builds a zero-operand handler pushing a fixed int value,
// shared by every iconst_* mnemonic.
func intConst(v int32) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		if err := f.Push(frame.IntWord(v)); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

func opBspushExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	b, err := s1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(int16(b))); err != nil {
		return 0, err
	}
	return pc + 2, nil
}

func opSspushExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	v, err := s2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(v)); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

func opBipushExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	b, err := s1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.IntWord(int32(b))); err != nil {
		return 0, err
	}
	return pc + 2, nil
}

func opSipushExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	v, err := s2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.IntWord(int32(v))); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

func opIipushExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	v, err := s4At(f, pc+1)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.IntWord(v)); err != nil {
		return 0, err
	}
	return pc + 5, nil
}
