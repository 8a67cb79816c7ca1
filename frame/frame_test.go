package frame

import "testing"

func TestPushFrameSlidesArgsAndZeroesLocals(t *testing.T) {
	s := NewStack(32)
	if err := s.PushArgs([]Word{ShortWord(10), ShortWord(20)}); err != nil {
		t.Fatal(err)
	}
	f, err := s.PushFrame(1, 0, 0, nil, 2, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	l0, _ := f.Local(0)
	l1, _ := f.Local(1)
	if l0.Short != 10 || l1.Short != 20 {
		t.Fatalf("args not slid into locals: %+v %+v", l0, l1)
	}
	l2, _ := f.Local(2)
	if l2 != (Word{}) {
		t.Fatalf("declared local not zeroed: %+v", l2)
	}
	if f.OperandDepth() != 0 {
		t.Fatalf("fresh frame should have empty operand stack")
	}
}

func TestOperandStackPushPopOverflowUnderflow(t *testing.T) {
	s := NewStack(16)
	f, err := s.PushFrame(1, 0, 0, nil, 0, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Push(ShortWord(1)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(ShortWord(2)); err != nil {
		t.Fatal(err)
	}
	if err := f.Push(ShortWord(3)); err == nil {
		t.Fatal("expected stack overflow")
	}
	w, err := f.Pop()
	if err != nil || w.Short != 2 {
		t.Fatalf("pop = %+v, %v", w, err)
	}
	if _, err := f.Pop(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Pop(); err == nil {
		t.Fatal("expected stack underflow")
	}
}

func TestPopFrameRestoresStackTop(t *testing.T) {
	s := NewStack(32)
	if err := s.PushArgs([]Word{ShortWord(1)}); err != nil {
		t.Fatal(err)
	}
	_, err := s.PushFrame(1, 0, 0, nil, 1, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", s.Depth())
	}
	if err := s.PopFrame(); err != nil {
		t.Fatal(err)
	}
	if s.Depth() != 0 {
		t.Fatalf("depth = %d, want 0", s.Depth())
	}
	if s.top != 0 {
		t.Fatalf("top = %d, want 0 after popping the only frame", s.top)
	}
}

func TestJumpSubroutineReturnAddressRing(t *testing.T) {
	s := NewStack(16)
	f, err := s.PushFrame(1, 0, 0, nil, 0, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := f.PushReturnAddress(42)
	if err != nil {
		t.Fatal(err)
	}
	pc, err := f.ReturnAddress(idx)
	if err != nil || pc != 42 {
		t.Fatalf("ReturnAddress = %d, %v", pc, err)
	}
	if _, err := f.ReturnAddress(idx + 1); err == nil {
		t.Fatal("expected out-of-range error")
	}
}
