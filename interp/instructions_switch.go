package interp

import (
	"jcvm/frame"
	"jcvm/jcvmerr"
)

func init() {
	dispatch[opStableswitch] = tableSwitch(false)
	dispatch[opItableswitch] = tableSwitch(true)
	dispatch[opSlookupswitch] = lookupSwitch(2)
	dispatch[opIlookupswitch] = lookupSwitch(4)
	dispatch[opJsr] = opJsrExec
	dispatch[opRet] = opRetExec
}

// checkSwitchTarget implements spec §4.6's "a switch whose target lands
// inside its own jump-table MUST fault as security": target must not
// fall within [pc+1, instrEnd), the instruction's own operand region.
func checkSwitchTarget(pc, instrEnd, target int) error {
	if target >= pc+1 && target < instrEnd {
		return jcvmerr.New(jcvmerr.KindSecurity, "switch target %d lands inside its own jump table", target)
	}
	return nil
}

// tableSwitch implements stableswitch/itableswitch (spec §4.6, P7): pop
// an index, compare against [low, high]; in range branches to
// table[index-low], otherwise to the default. low > high faults
// runtime.
func tableSwitch(wide bool) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		defOff, err := s2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		low, err := s2At(f, pc+3)
		if err != nil {
			return 0, err
		}
		high, err := s2At(f, pc+5)
		if err != nil {
			return 0, err
		}
		if low > high {
			return 0, jcvmerr.New(jcvmerr.KindRuntime, "tableswitch: low %d > high %d", low, high)
		}
		n := int(high) - int(low) + 1
		tableStart := pc + 7
		instrEnd := tableStart + n*2

		var idx int32
		w, err := f.Pop()
		if err != nil {
			return 0, err
		}
		if wide {
			idx = w.Int
		} else {
			idx = int32(w.Short)
		}

		target := pc + int(defOff)
		if idx >= int32(low) && idx <= int32(high) {
			cell := int(idx-int32(low)) * 2
			off, err := s2At(f, tableStart+cell)
			if err != nil {
				return 0, err
			}
			target = pc + int(off)
		}
		if err := checkSwitchTarget(pc, instrEnd, target); err != nil {
			return 0, err
		}
		return target, nil
	}
}

// lookupSwitch implements slookupswitch/ilookupswitch: pop a value,
// scan (match, offset) pairs of matchWidth-byte matches, branch to the
// first equal match's offset or the default.
func lookupSwitch(matchWidth int) handler {
	return func(ip *Interpreter, f *frame.Frame) (int, error) {
		pc := f.SavedPC()
		defOff, err := s2At(f, pc+1)
		if err != nil {
			return 0, err
		}
		npairs, err := u2At(f, pc+3)
		if err != nil {
			return 0, err
		}
		pairWidth := matchWidth + 2
		base := pc + 5
		instrEnd := base + int(npairs)*pairWidth

		var val int32
		w, err := f.Pop()
		if err != nil {
			return 0, err
		}
		if matchWidth == 4 {
			val = w.Int
		} else {
			val = int32(w.Short)
		}

		target := pc + int(defOff)
		for i := 0; i < int(npairs); i++ {
			off := base + i*pairWidth
			var match int32
			if matchWidth == 4 {
				m, err := s4At(f, off)
				if err != nil {
					return 0, err
				}
				match = m
			} else {
				m, err := s2At(f, off)
				if err != nil {
					return 0, err
				}
				match = int32(m)
			}
			if match == val {
				jmp, err := s2At(f, off+matchWidth)
				if err != nil {
					return 0, err
				}
				target = pc + int(jmp)
				break
			}
		}
		if err := checkSwitchTarget(pc, instrEnd, target); err != nil {
			return 0, err
		}
		return target, nil
	}
}

// opJsrExec implements spec §4.6's jump-subroutine: the fall-through
// address is recorded in the frame's saved-PC table, and the table
// index (not the address itself) is what's pushed, so a later astore
// can stash it in a local for ret to read back.
func opJsrExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	offset, err := s2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	returnPC := pc + 3
	idx, err := f.PushReturnAddress(returnPC)
	if err != nil {
		return 0, err
	}
	if err := f.Push(frame.ShortWord(int16(idx))); err != nil {
		return 0, err
	}
	return pc + int(offset), nil
}

func opRetExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	localIdx, err := u1At(f, pc+1)
	if err != nil {
		return 0, err
	}
	w, err := f.Local(int(localIdx))
	if err != nil {
		return 0, err
	}
	target, err := f.ReturnAddress(int(w.Short))
	if err != nil {
		return 0, err
	}
	return target, nil
}
