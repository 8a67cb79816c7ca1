package interp

import "jcvm/frame"

func init() {
	dispatch[opImpdep1] = opImpdep1Exec
	// opImpdep2 is reserved and unregistered: it faults through Run's
	// dispatch[opcode]==nil path as an unsupported opcode (spec §4.8
	// "Misc": "impdep2 reserved").
}

// opImpdep1Exec implements the native-call bytecode (spec §6.3):
// `impdep1` pops a 16-bit identifier and invokes the matching host
// function with the current execution context.
func opImpdep1Exec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	id := uint16(w.Short)
	if err := ip.Natives.Call(id, ip.Ctx, f); err != nil {
		return 0, err
	}
	return f.SavedPC() + 1, nil
}
