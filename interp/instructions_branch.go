package interp

import "jcvm/frame"

func init() {
	dispatch[opIfeq] = condBranch(1, zeroTest(func(v int16) bool { return v == 0 }))
	dispatch[opIfne] = condBranch(1, zeroTest(func(v int16) bool { return v != 0 }))
	dispatch[opIflt] = condBranch(1, zeroTest(func(v int16) bool { return v < 0 }))
	dispatch[opIfge] = condBranch(1, zeroTest(func(v int16) bool { return v >= 0 }))
	dispatch[opIfgt] = condBranch(1, zeroTest(func(v int16) bool { return v > 0 }))
	dispatch[opIfle] = condBranch(1, zeroTest(func(v int16) bool { return v <= 0 }))
	dispatch[opIfnull] = condBranch(1, nullTest(true))
	dispatch[opIfnonnull] = condBranch(1, nullTest(false))
	dispatch[opIfAcmpeq] = condBranch(1, acmpTest(true))
	dispatch[opIfAcmpne] = condBranch(1, acmpTest(false))
	dispatch[opIfScmpeq] = condBranch(1, scmpTest(func(a, b int16) bool { return a == b }))
	dispatch[opIfScmpne] = condBranch(1, scmpTest(func(a, b int16) bool { return a != b }))
	dispatch[opIfScmplt] = condBranch(1, scmpTest(func(a, b int16) bool { return a < b }))
	dispatch[opIfScmpge] = condBranch(1, scmpTest(func(a, b int16) bool { return a >= b }))
	dispatch[opIfScmpgt] = condBranch(1, scmpTest(func(a, b int16) bool { return a > b }))
	dispatch[opIfScmple] = condBranch(1, scmpTest(func(a, b int16) bool { return a <= b }))
	dispatch[opGoto] = gotoBranch(1)

	dispatch[opIfeqW] = condBranch(2, zeroTest(func(v int16) bool { return v == 0 }))
	dispatch[opIfneW] = condBranch(2, zeroTest(func(v int16) bool { return v != 0 }))
	dispatch[opIfltW] = condBranch(2, zeroTest(func(v int16) bool { return v < 0 }))
	dispatch[opIfgeW] = condBranch(2, zeroTest(func(v int16) bool { return v >= 0 }))
	dispatch[opIfgtW] = condBranch(2, zeroTest(func(v int16) bool { return v > 0 }))
	dispatch[opIfleW] = condBranch(2, zeroTest(func(v int16) bool { return v <= 0 }))
	dispatch[opIfnullW] = condBranch(2, nullTest(true))
	dispatch[opIfnonnullW] = condBranch(2, nullTest(false))
	dispatch[opIfAcmpeqW] = condBranch(2, acmpTest(true))
	dispatch[opIfAcmpneW] = condBranch(2, acmpTest(false))
	dispatch[opIfScmpeqW] = condBranch(2, scmpTest(func(a, b int16) bool { return a == b }))
	dispatch[opIfScmpneW] = condBranch(2, scmpTest(func(a, b int16) bool { return a != b }))
	dispatch[opIfScmpltW] = condBranch(2, scmpTest(func(a, b int16) bool { return a < b }))
	dispatch[opIfScmpgeW] = condBranch(2, scmpTest(func(a, b int16) bool { return a >= b }))
	dispatch[opIfScmpgtW] = condBranch(2, scmpTest(func(a, b int16) bool { return a > b }))
	dispatch[opIfScmpleW] = condBranch(2, scmpTest(func(a, b int16) bool { return a <= b }))
	dispatch[opGotoW] = gotoBranch(2)
}

// condBranch implements P8: the narrow/wide signed offset is read from
// immediately after the opcode, but added to the opcode's own address,
// not the address of the following instruction.
func condBranch(offBytes int, test func(f *frame.Frame) (bool, error)) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		taken, err := test(f)
		if err != nil {
			return 0, err
		}
		offset, err := branchOffset(f, pc, offBytes)
		if err != nil {
			return 0, err
		}
		if taken {
			return pc + offset, nil
		}
		return pc + 1 + offBytes, nil
	}
}

func gotoBranch(offBytes int) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		offset, err := branchOffset(f, pc, offBytes)
		if err != nil {
			return 0, err
		}
		return pc + offset, nil
	}
}

func branchOffset(f *frame.Frame, pc, offBytes int) (int, error) {
	if offBytes == 1 {
		v, err := s1At(f, pc+1)
		return int(v), err
	}
	v, err := s2At(f, pc+1)
	return int(v), err
}

func zeroTest(cmp func(v int16) bool) func(*frame.Frame) (bool, error) {
	return func(f *frame.Frame) (bool, error) {
		w, err := f.Pop()
		if err != nil {
			return false, err
		}
		return cmp(w.Short), nil
	}
}

func scmpTest(cmp func(a, b int16) bool) func(*frame.Frame) (bool, error) {
	return func(f *frame.Frame) (bool, error) {
		wb, err := f.Pop()
		if err != nil {
			return false, err
		}
		wa, err := f.Pop()
		if err != nil {
			return false, err
		}
		return cmp(wa.Short, wb.Short), nil
	}
}

// acmpTest compares two references for identity; wantEqual selects
// if_acmpeq (true) vs if_acmpne (false).
func acmpTest(wantEqual bool) func(*frame.Frame) (bool, error) {
	return func(f *frame.Frame) (bool, error) {
		wb, err := f.Pop()
		if err != nil {
			return false, err
		}
		wa, err := f.Pop()
		if err != nil {
			return false, err
		}
		return (wa.Ref == wb.Ref) == wantEqual, nil
	}
}

func nullTest(wantNull bool) func(*frame.Frame) (bool, error) {
	return func(f *frame.Frame) (bool, error) {
		w, err := f.Pop()
		if err != nil {
			return false, err
		}
		return w.Ref.IsNull() == wantNull, nil
	}
}
