package interp

import "jcvm/frame"

func init() {
	dispatch[opAstore] = storeLocalOperand
	dispatch[opSstore] = storeLocalOperand
	dispatch[opIstore] = storeLocalOperand

	dispatch[opAstore0] = storeLocalAt(0)
	dispatch[opAstore1] = storeLocalAt(1)
	dispatch[opAstore2] = storeLocalAt(2)
	dispatch[opAstore3] = storeLocalAt(3)
	dispatch[opSstore0] = storeLocalAt(0)
	dispatch[opSstore1] = storeLocalAt(1)
	dispatch[opSstore2] = storeLocalAt(2)
	dispatch[opSstore3] = storeLocalAt(3)
	dispatch[opIstore0] = storeLocalAt(0)
	dispatch[opIstore1] = storeLocalAt(1)
	dispatch[opIstore2] = storeLocalAt(2)
	dispatch[opIstore3] = storeLocalAt(3)
}

func storeLocalOperand(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	idx, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if err := f.SetLocal(int(idx), w); err != nil {
		return 0, err
	}
	return pc + 2, nil
}

func storeLocalAt(idx int) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		w, err := f.Pop()
		if err != nil {
			return 0, err
		}
		if err := f.SetLocal(idx, w); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}
