package interp

import (
	"jcvm/frame"
	"jcvm/jcvmerr"
)

func init() {
	dispatch[opPop] = opPopExec
	dispatch[opPop2] = opPop2Exec
	dispatch[opDup] = opDupExec
	dispatch[opDup2] = opDup2Exec
	dispatch[opDupX] = opDupXExec
	dispatch[opSwapX] = opSwapXExec
}

func opPopExec(ip *Interpreter, f *frame.Frame) (int, error) {
	if _, err := f.Pop(); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func opPop2Exec(ip *Interpreter, f *frame.Frame) (int, error) {
	if _, err := f.Pop(); err != nil {
		return 0, err
	}
	if _, err := f.Pop(); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func opDupExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Peek(0)
	if err != nil {
		return 0, err
	}
	if err := f.Push(w); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

func opDup2Exec(ip *Interpreter, f *frame.Frame) (int, error) {
	lo, err := f.Peek(1)
	if err != nil {
		return 0, err
	}
	hi, err := f.Peek(0)
	if err != nil {
		return 0, err
	}
	if err := f.Push(lo); err != nil {
		return 0, err
	}
	if err := f.Push(hi); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}

// decodePacked splits dup_x/swap_x's single operand byte into (m, n)
// and checks the permissible ranges (spec §4.8: "m in [1,4], n = 0 or
// m <= n <= m+4").
func decodePacked(packed byte) (int, int, error) {
	m := int(packed >> 4)
	n := int(packed & 0x0F)
	if m < 1 || m > 4 {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "dup_x/swap_x: m=%d out of range", m)
	}
	if n != 0 && (n < m || n > m+4) {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "dup_x/swap_x: n=%d out of range for m=%d", n, m)
	}
	return m, n, nil
}

// popWords pops count words, returning them top-first (index 0 was the
// topmost word before popping).
func popWords(f *frame.Frame, count int) ([]frame.Word, error) {
	buf := make([]frame.Word, count)
	for i := 0; i < count; i++ {
		w, err := f.Pop()
		if err != nil {
			return nil, err
		}
		buf[i] = w
	}
	return buf, nil
}

// pushWords pushes a top-first slice back in its original bottom-to-top
// order.
func pushWords(f *frame.Frame, buf []frame.Word) error {
	for i := len(buf) - 1; i >= 0; i-- {
		if err := f.Push(buf[i]); err != nil {
			return err
		}
	}
	return nil
}

// opDupXExec duplicates the top m words and inserts the copy n words
// down (n=0 duplicates in place, like a generalized dup/dup2).
func opDupXExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	packed, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	m, n, err := decodePacked(packed)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		for i := m - 1; i >= 0; i-- {
			w, err := f.Peek(i)
			if err != nil {
				return 0, err
			}
			if err := f.Push(w); err != nil {
				return 0, err
			}
		}
		return pc + 2, nil
	}
	buf, err := popWords(f, n)
	if err != nil {
		return 0, err
	}
	a, b := buf[:m], buf[m:]
	if err := pushWords(f, a); err != nil {
		return 0, err
	}
	if err := pushWords(f, b); err != nil {
		return 0, err
	}
	if err := pushWords(f, a); err != nil {
		return 0, err
	}
	return pc + 2, nil
}

// opSwapXExec swaps the top m words with the n-m words below them
// (n=0 is a no-op: there's nothing below the top group to swap with).
func opSwapXExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	packed, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	m, n, err := decodePacked(packed)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return pc + 2, nil
	}
	buf, err := popWords(f, n)
	if err != nil {
		return 0, err
	}
	a, b := buf[:m], buf[m:]
	if err := pushWords(f, a); err != nil {
		return 0, err
	}
	if err := pushWords(f, b); err != nil {
		return 0, err
	}
	return pc + 2, nil
}
