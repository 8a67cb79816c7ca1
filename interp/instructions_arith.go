package interp

import (
	"jcvm/frame"
	"jcvm/jcvmerr"
)

func init() {
	dispatch[opSadd] = shortBinOp(func(a, b int16) (int16, error) { return a + b, nil })
	dispatch[opSsub] = shortBinOp(func(a, b int16) (int16, error) { return a - b, nil })
	dispatch[opSmul] = shortBinOp(func(a, b int16) (int16, error) { return a * b, nil })
	dispatch[opSdiv] = shortBinOp(sdiv)
	dispatch[opSrem] = shortBinOp(srem)
	dispatch[opSand] = shortBinOp(func(a, b int16) (int16, error) { return a & b, nil })
	dispatch[opSor] = shortBinOp(func(a, b int16) (int16, error) { return a | b, nil })
	dispatch[opSxor] = shortBinOp(func(a, b int16) (int16, error) { return a ^ b, nil })
	dispatch[opSneg] = shortUnOp(func(a int16) int16 { return -a })
	dispatch[opSshl] = shortShiftOp(func(v int16, s uint) int16 { return v << s })
	dispatch[opSshr] = shortShiftOp(func(v int16, s uint) int16 { return v >> s })
	dispatch[opSushr] = shortShiftOp(func(v int16, s uint) int16 { return int16(uint16(v) >> s) })

	dispatch[opIadd] = intBinOp(func(a, b int32) (int32, error) { return a + b, nil })
	dispatch[opIsub] = intBinOp(func(a, b int32) (int32, error) { return a - b, nil })
	dispatch[opImul] = intBinOp(func(a, b int32) (int32, error) { return a * b, nil })
	dispatch[opIdiv] = intBinOp(idiv)
	dispatch[opIrem] = intBinOp(irem)
	dispatch[opIand] = intBinOp(func(a, b int32) (int32, error) { return a & b, nil })
	dispatch[opIor] = intBinOp(func(a, b int32) (int32, error) { return a | b, nil })
	dispatch[opIxor] = intBinOp(func(a, b int32) (int32, error) { return a ^ b, nil })
	dispatch[opIneg] = intUnOp(func(a int32) int32 { return -a })
	dispatch[opIshl] = intShiftOp(func(v int32, s uint) int32 { return v << s })
	dispatch[opIshr] = intShiftOp(func(v int32, s uint) int32 { return v >> s })
	dispatch[opIushr] = intShiftOp(func(v int32, s uint) int32 { return int32(uint32(v) >> s) })

	dispatch[opICmp] = opICmpExec
	dispatch[opSinc] = opSincExec
	dispatch[opIinc] = opIincExec
	dispatch[opS2b] = opS2bExec
	dispatch[opS2i] = opS2iExec
	dispatch[opI2s] = opI2sExec
	dispatch[opI2b] = opI2bExec
}

// sdiv/srem/idiv/irem implement P4: zero divisor raises arithmetic,
// MIN/-1 returns 0 (Go's own divide-overflow rule returns the dividend
// unchanged for this case, not 0, so it must be special-cased).

func sdiv(a, b int16) (int16, error) {
	if b == 0 {
		return 0, jcvmerr.New(jcvmerr.KindArithmetic, "sdiv: divide by zero")
	}
	if a == -32768 && b == -1 {
		return 0, nil
	}
	return a / b, nil
}

func srem(a, b int16) (int16, error) {
	if b == 0 {
		return 0, jcvmerr.New(jcvmerr.KindArithmetic, "srem: divide by zero")
	}
	if a == -32768 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

func idiv(a, b int32) (int32, error) {
	if b == 0 {
		return 0, jcvmerr.New(jcvmerr.KindArithmetic, "idiv: divide by zero")
	}
	if a == -2147483648 && b == -1 {
		return 0, nil
	}
	return a / b, nil
}

func irem(a, b int32) (int32, error) {
	if b == 0 {
		return 0, jcvmerr.New(jcvmerr.KindArithmetic, "irem: divide by zero")
	}
	if a == -2147483648 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

// shortBinOp pops two shorts (b on top, a below), applies fn, and
// pushes the short result.
func shortBinOp(fn func(a, b int16) (int16, error)) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		wb, err := f.Pop()
		if err != nil {
			return 0, err
		}
		wa, err := f.Pop()
		if err != nil {
			return 0, err
		}
		res, err := fn(wa.Short, wb.Short)
		if err != nil {
			return 0, err
		}
		if err := f.Push(frame.ShortWord(res)); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

func intBinOp(fn func(a, b int32) (int32, error)) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		wb, err := f.Pop()
		if err != nil {
			return 0, err
		}
		wa, err := f.Pop()
		if err != nil {
			return 0, err
		}
		res, err := fn(wa.Int, wb.Int)
		if err != nil {
			return 0, err
		}
		if err := f.Push(frame.IntWord(res)); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

func shortUnOp(fn func(a int16) int16) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		w, err := f.Pop()
		if err != nil {
			return 0, err
		}
		if err := f.Push(frame.ShortWord(fn(w.Short))); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

func intUnOp(fn func(a int32) int32) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		w, err := f.Pop()
		if err != nil {
			return 0, err
		}
		if err := f.Push(frame.IntWord(fn(w.Int))); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

// shiftMask implements P3: the effective shift is always s & 0x1F,
// regardless of operand width.
func shiftMask(count int16) uint {
	return uint(count) & 0x1F
}

// shortShiftOp pops a short shift count then a short value (spec §4.8's
// shift-count operand is short-typed across both the short and int
// families).
func shortShiftOp(fn func(v int16, s uint) int16) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		wc, err := f.Pop()
		if err != nil {
			return 0, err
		}
		wv, err := f.Pop()
		if err != nil {
			return 0, err
		}
		res := fn(wv.Short, shiftMask(wc.Short))
		if err := f.Push(frame.ShortWord(res)); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

func intShiftOp(fn func(v int32, s uint) int32) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		wc, err := f.Pop()
		if err != nil {
			return 0, err
		}
		wv, err := f.Pop()
		if err != nil {
			return 0, err
		}
		res := fn(wv.Int, shiftMask(wc.Short))
		if err := f.Push(frame.IntWord(res)); err != nil {
			return 0, err
		}
		return f.SavedPC() + 1, nil
	}
}

func opICmpExec(ip *Interpreter, f *frame.Frame) (int, error) {
	wb, err := f.Pop()
	if err != nil {
		return 0, err
	}
	wa, err := f.Pop()
	if err != nil {
		return 0, err
	}
	var res int16
	switch {
	case wa.Int < wb.Int:
		res = -1
	case wa.Int > wb.Int:
		res = 1
	}
	if err := f.Push(frame.ShortWord(res)); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func opSincExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	idx, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	delta, err := s1At(f, pc+2)
	if err != nil {
		return 0, err
	}
	w, err := f.Local(int(idx))
	if err != nil {
		return 0, err
	}
	w.Short += int16(delta)
	if err := f.SetLocal(int(idx), w); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

func opIincExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	idx, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	delta, err := s1At(f, pc+2)
	if err != nil {
		return 0, err
	}
	w, err := f.Local(int(idx))
	if err != nil {
		return 0, err
	}
	w.Int += int32(delta)
	if err := f.SetLocal(int(idx), w); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

// opS2bExec/opI2bExec implement P2's "truncate to byte then
// sign-extend to short" rule; both widths of truncation funnel into the
// same short-typed result since this core carries byte values on the
// stack as sign-extended shorts.

func opS2bExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(int16(int8(w.Short)))); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func opI2bExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(int16(int8(w.Int)))); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

// opS2iExec preserves value (P2).
func opS2iExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.IntWord(int32(w.Short))); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

// opI2sExec truncates the high word (P2).
func opI2sExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(int16(w.Int))); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}
