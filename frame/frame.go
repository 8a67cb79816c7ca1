// Package frame implements the invocation stack of spec §4.6: per-call
// frames carrying argument/local slots and an operand stack over one
// contiguous Stack region, plus jump-subroutine return-address tracking.
package frame

import (
	"jcvm/jcvmerr"
	"jcvm/object"
)

// Word is one stack/local cell. Only one of the typed fields is
// meaningful at a time; the opcode in play decides which, and the IsRef
// and IsInt tags record which constructor built the word.
type Word struct {
	Ref   object.Reference
	Short int16
	Int   int32
	IsRef bool
	IsInt bool // false => Short is the live representation
}

// ShortWord builds a short-typed word.
func ShortWord(v int16) Word { return Word{Short: v} }

// IntWord builds an int-typed word.
func IntWord(v int32) Word { return Word{Int: v, IsInt: true} }

// RefWord builds a reference-typed word.
func RefWord(v object.Reference) Word { return Word{Ref: v, IsRef: true} }

const savedPCRingSize = 4

// Frame is one invocation's locals + operand stack, laid out over a
// shared contiguous Stack region (spec §4.6).
type Frame struct {
	stack *Stack

	localBase int // index into stack.words of local slot 0
	nargs     int
	maxLocals int

	opBase  int // index into stack.words of operand-stack slot 0
	opLimit int // opBase + maxStack
	opTop   int // index of next free operand slot, opBase <= opTop <= opLimit

	savedPC int
	pcRing  [savedPCRingSize]int
	pcCount int

	PackageID    uint8
	ClassIndex   uint16 // declaring class of the executing method, for invokespecial/super
	MethodOffset uint16 // method-component offset of the executing method, for athrow's handler search
	Code         []byte
}

// Stack is the contiguous region backing every frame pushed during one
// execution context's lifetime (spec §4.6 "Frame": "pointer to a
// contiguous region of the stack").
type Stack struct {
	words []Word
	top   int // index of the next free word, i.e. the current frame's end
	frames []*Frame
}

// NewStack allocates a stack region of the given word capacity.
func NewStack(capacity int) *Stack {
	return &Stack{words: make([]Word, capacity)}
}

// PushArgs places nargs caller-pushed argument words at the top of the
// stack, ready for the next PushFrame call to slide them into the new
// frame's local base (spec §4.6 "caller already placed nargs argument
// words at frame top").
func (s *Stack) PushArgs(args []Word) error {
	if s.top+len(args) > len(s.words) {
		return jcvmerr.New(jcvmerr.KindStackOverflow, "argument push overflows stack")
	}
	copy(s.words[s.top:], args)
	s.top += len(args)
	return nil
}

// PushFrame establishes a new frame for a method with the given header
// shape. nargs words must already be at the stack top (via PushArgs);
// they become local slots 0..nargs-1. Declared-local slots
// (nargs..maxLocals-1) are zero-initialized; the operand stack is given
// exactly maxStack words of headroom (spec §4.6).
func (s *Stack) PushFrame(packageID uint8, classIndex uint16, methodOffset uint16, code []byte, nargs, maxLocals, maxStack int) (*Frame, error) {
	localBase := s.top - nargs
	if localBase < 0 {
		return nil, jcvmerr.New(jcvmerr.KindRuntime, "push-frame: fewer than nargs words available")
	}
	needed := localBase + maxLocals + maxStack
	if needed > len(s.words) {
		return nil, jcvmerr.New(jcvmerr.KindStackOverflow, "push-frame overflows stack region")
	}
	for i := localBase + nargs; i < localBase+maxLocals; i++ {
		s.words[i] = Word{}
	}
	f := &Frame{
		stack:        s,
		localBase:    localBase,
		nargs:        nargs,
		maxLocals:    maxLocals,
		opBase:       localBase + maxLocals,
		opLimit:      localBase + maxLocals + maxStack,
		opTop:        localBase + maxLocals,
		PackageID:    packageID,
		ClassIndex:   classIndex,
		MethodOffset: methodOffset,
		Code:         code,
	}
	s.top = f.opLimit
	s.frames = append(s.frames, f)
	return f, nil
}

// PopFrame destroys the current (topmost) frame, returning the stack to
// the state it had before the frame was pushed (spec §4.6 "Pop-frame:
// ... destroys the current frame").
func (s *Stack) PopFrame() error {
	if len(s.frames) == 0 {
		return jcvmerr.New(jcvmerr.KindRuntime, "pop-frame: no active frame")
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.top = f.localBase
	return nil
}

// Current returns the topmost frame, or nil if the stack is empty.
func (s *Stack) Current() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports how many frames are active.
func (s *Stack) Depth() int { return len(s.frames) }

// Local reads local slot i.
func (f *Frame) Local(i int) (Word, error) {
	if i < 0 || i >= f.maxLocals {
		return Word{}, jcvmerr.New(jcvmerr.KindSecurity, "local slot %d out of range", i)
	}
	return f.stack.words[f.localBase+i], nil
}

// SetLocal writes local slot i.
func (f *Frame) SetLocal(i int, w Word) error {
	if i < 0 || i >= f.maxLocals {
		return jcvmerr.New(jcvmerr.KindSecurity, "local slot %d out of range", i)
	}
	f.stack.words[f.localBase+i] = w
	return nil
}

// Push pushes w onto the operand stack (spec invariant I1: every push
// must remain within [op_base, eos)).
func (f *Frame) Push(w Word) error {
	if f.opTop >= f.opLimit {
		return jcvmerr.New(jcvmerr.KindStackOverflow, "operand stack overflow")
	}
	f.stack.words[f.opTop] = w
	f.opTop++
	return nil
}

// Pop pops and returns the top operand-stack word.
func (f *Frame) Pop() (Word, error) {
	if f.opTop <= f.opBase {
		return Word{}, jcvmerr.New(jcvmerr.KindStackUnderflow, "operand stack underflow")
	}
	f.opTop--
	return f.stack.words[f.opTop], nil
}

// Peek returns the operand-stack word depth slots from the top (0 =
// top) without popping it.
func (f *Frame) Peek(depth int) (Word, error) {
	idx := f.opTop - 1 - depth
	if idx < f.opBase {
		return Word{}, jcvmerr.New(jcvmerr.KindStackUnderflow, "operand stack peek out of range")
	}
	return f.stack.words[idx], nil
}

// OperandDepth reports how many words are currently on the operand
// stack.
func (f *Frame) OperandDepth() int { return f.opTop - f.opBase }

// PushReturnAddress records pc in the frame's small fixed-capacity
// saved-PC table and returns its index, for jsr (spec §4.6
// "Jump-subroutine": "pushes the return address (index into a
// per-frame saved-PC table)").
func (f *Frame) PushReturnAddress(pc int) (int, error) {
	if f.pcCount >= savedPCRingSize {
		return 0, jcvmerr.New(jcvmerr.KindRuntime, "jsr: saved-PC table exhausted")
	}
	idx := f.pcCount
	f.pcRing[idx] = pc
	f.pcCount++
	return idx, nil
}

// ReturnAddress looks up a saved-PC table index for ret.
func (f *Frame) ReturnAddress(idx int) (int, error) {
	if idx < 0 || idx >= f.pcCount {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "ret: saved-PC index %d out of range", idx)
	}
	return f.pcRing[idx], nil
}

// SavedPC / SetSavedPC track the frame's current program counter across
// interpreter suspension points.
func (f *Frame) SavedPC() int      { return f.savedPC }
func (f *Frame) SetSavedPC(pc int) { f.savedPC = pc }
