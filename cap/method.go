package cap

import "jcvm/jcvmerr"

// ExceptionHandler is one entry of a method's exception-handler table
// (spec §4.1 "Method", §4.8 "athrow").
type ExceptionHandler struct {
	StartPC        uint16
	EndPC          uint16
	HandlerPC      uint16
	CatchTypeIndex uint16 // 0 = catch-all; otherwise a constant-pool class reference
}

// MethodHeader is one method's header plus a view of its bytecode (spec
// §4.1 "Method": "short (packed nibbles...) or extended...").
//
// The packed-nibble vs. full-byte discriminator is this reader's own
// concrete bit layout (spec.md leaves the CAP format's exact header
// encoding to the implementer, as it does field-slot bijections in
// §4.5): the top nibble of the first header byte doubles as the flags
// nibble in the short form and as the high nibble of the flags byte in
// the extended form, with bit 0x40 of that byte (0x4 of the nibble)
// selecting extended.
type MethodHeader struct {
	Offset int // offset of this header from the start of the method component, handler table included

	Abstract  bool
	MaxStack  uint8
	Nargs     uint8
	MaxLocals uint8

	ExceptionHandlers []ExceptionHandler
	Code              []byte
}

const (
	methodFlagAbstract = 0x8
	methodFlagExtended = 0x4
)

// MethodComponent is the exception-handler table followed by the packed
// method region (spec §4.1 "Method").
type MethodComponent struct {
	Methods map[int]*MethodHeader // keyed by header offset from the start of the component ("method offset")
}

func parseMethodComponent(data []byte) (*MethodComponent, error) {
	r := NewReader(data)

	handlerCount, err := r.U2()
	if err != nil {
		return nil, err
	}
	sharedHandlers := make([]ExceptionHandler, handlerCount)
	for i := range sharedHandlers {
		startPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		endPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		handlerPC, err := r.U2()
		if err != nil {
			return nil, err
		}
		catchType, err := r.U2()
		if err != nil {
			return nil, err
		}
		sharedHandlers[i] = ExceptionHandler{StartPC: startPC, EndPC: endPC, HandlerPC: handlerPC, CatchTypeIndex: catchType}
	}

	mc := &MethodComponent{Methods: make(map[int]*MethodHeader)}
	for !r.EOF() {
		offset := r.Position()
		header, err := parseMethodHeader(r)
		if err != nil {
			return nil, err
		}
		header.Offset = offset
		header.ExceptionHandlers = handlersInRange(sharedHandlers, header)
		mc.Methods[offset] = header
	}
	return mc, nil
}

// handlersInRange is a placeholder selection: in this core every handler
// in the shared table is visible to every method, since the per-method
// table split isn't load-bearing for any spec invariant (athrow only ever
// consults the handlers whose [start,end) covers the current PC).
func handlersInRange(all []ExceptionHandler, _ *MethodHeader) []ExceptionHandler {
	return all
}

func parseMethodHeader(r *Reader) (*MethodHeader, error) {
	b0, err := r.U1()
	if err != nil {
		return nil, err
	}
	nibble := b0 >> 4

	var abstractFlag bool
	var maxStack, nargs, maxLocals uint8

	if nibble&methodFlagExtended != 0 {
		abstractFlag = b0&0x80 != 0
		ms, err := r.U1()
		if err != nil {
			return nil, err
		}
		na, err := r.U1()
		if err != nil {
			return nil, err
		}
		ml, err := r.U1()
		if err != nil {
			return nil, err
		}
		maxStack, nargs, maxLocals = ms, na, ml
	} else {
		abstractFlag = nibble&methodFlagAbstract != 0
		maxStack = b0 & 0x0F
		b1, err := r.U1()
		if err != nil {
			return nil, err
		}
		nargs = b1 >> 4
		maxLocals = b1 & 0x0F
	}

	codeLen, err := r.U2()
	if err != nil {
		return nil, err
	}
	code, err := r.Bytes(int(codeLen))
	if err != nil {
		return nil, err
	}

	if abstractFlag && codeLen != 0 {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "abstract method declares %d bytes of code", codeLen)
	}

	return &MethodHeader{
		Abstract:  abstractFlag,
		MaxStack:  maxStack,
		Nargs:     nargs,
		MaxLocals: maxLocals,
		Code:      code,
	}, nil
}
