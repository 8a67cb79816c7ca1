package interp

import "jcvm/frame"

func init() {
	dispatch[opAload] = loadLocalOperand
	dispatch[opSload] = loadLocalOperand
	dispatch[opIload] = loadLocalOperand

	dispatch[opAload0] = loadLocalAt(0)
	dispatch[opAload1] = loadLocalAt(1)
	dispatch[opAload2] = loadLocalAt(2)
	dispatch[opAload3] = loadLocalAt(3)
	dispatch[opSload0] = loadLocalAt(0)
	dispatch[opSload1] = loadLocalAt(1)
	dispatch[opSload2] = loadLocalAt(2)
	dispatch[opSload3] = loadLocalAt(3)
	dispatch[opIload0] = loadLocalAt(0)
	dispatch[opIload1] = loadLocalAt(1)
	dispatch[opIload2] = loadLocalAt(2)
	dispatch[opIload3] = loadLocalAt(3)
}

// loadLocalOperand and loadLocalAt are shared across the a/s/i load
// families: a local slot carries its own word tag, so the load itself
// doesn't need to know which of the three families it is serving.

func loadLocalOperand(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	idx, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	w, err := f.Local(int(idx))
	if err != nil {
		return 0, err
	}
	if err := f.Push(w); err != nil {
		return 0, err
	}
	return pc + 2, nil
}

func loadLocalAt(idx int) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		w, err := f.Local(idx)
		if err != nil {
			return 0, err
		}
		if err := f.Push(w); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}
