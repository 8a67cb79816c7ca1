package interp

import (
	"jcvm/frame"
	"jcvm/jcvmerr"
)

func init() {
	dispatch[opInvokevirtual] = opInvokevirtualExec
	dispatch[opInvokespecial] = opInvokespecialExec
	dispatch[opInvokestatic] = opInvokestaticExec
	dispatch[opInvokeinterface] = opInvokeinterfaceExec
	dispatch[opSreturn] = opSreturnExec
	dispatch[opIreturn] = opIreturnExec
	dispatch[opAreturn] = opAreturnExec
	dispatch[opReturn] = opReturnExec
	dispatch[opAthrow] = opAthrowExec
}

func receiverAt(f *frame.Frame, depth int) (frame.Word, error) {
	if depth < 0 {
		return frame.Word{}, jcvmerr.New(jcvmerr.KindSecurity, "invoke: method declares no receiver argument")
	}
	w, err := f.Peek(depth)
	if err != nil {
		return frame.Word{}, err
	}
	if !w.IsRef {
		return frame.Word{}, jcvmerr.New(jcvmerr.KindSecurity, "invoke: receiver slot is not reference-typed")
	}
	if w.Ref.IsNull() {
		return frame.Word{}, jcvmerr.New(jcvmerr.KindNullPointer, "invoke on null receiver")
	}
	return w, nil
}

// opInvokevirtualExec implements spec §4.9's virtual invoke: the
// receiver isn't popped to find nargs — nargs comes from the
// statically-named method's own header first, since every override
// shares its signature, and only then is the receiver peeked at
// depth nargs-1 and used for the real dynamic dispatch.
func opInvokevirtualExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	cpIndex, err := u2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	nargs, err := ip.Linker.ResolveVirtualMethodNargs(f.PackageID, cpIndex)
	if err != nil {
		return 0, err
	}
	recv, err := receiverAt(f, nargs-1)
	if err != nil {
		return 0, err
	}
	receiverClass, err := receiverClassOf(ip, recv.Ref)
	if err != nil {
		return 0, err
	}
	targetPkg, offset, err := ip.Linker.ResolveVirtualMethod(f.PackageID, cpIndex, receiverClass)
	if err != nil {
		return 0, err
	}
	if err := ip.pushCallFrame(f, targetPkg, receiverClass.Offset, offset); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

// opInvokespecialExec implements spec §4.9's non-virtual invoke: the
// target offset is resolved directly from the constant pool entry, with
// no vtable lookup (used for constructors, private methods, and
// invokesuper's sibling).
func opInvokespecialExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	cpIndex, err := u2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	targetPkg, offset, declClass, err := ip.Linker.ResolveInvokespecial(f.PackageID, cpIndex)
	if err != nil {
		return 0, err
	}
	if err := ip.pushCallFrame(f, targetPkg, declClass.Offset, offset); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

func opInvokestaticExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	cpIndex, err := u2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	targetPkg, offset, err := ip.Linker.ResolveStaticMethod(f.PackageID, cpIndex)
	if err != nil {
		return 0, err
	}
	if err := ip.pushCallFrame(f, targetPkg, 0, offset); err != nil {
		return 0, err
	}
	return pc + 3, nil
}

// opInvokeinterfaceExec implements spec §4.9's interface invoke: the
// class-ref operand names the interface, nargs is carried explicitly as
// a 1-byte operand (an interface has no method body of its own to
// consult), and the method token is remapped to the receiver's own
// class-local vtable slot before the usual virtual dispatch.
func opInvokeinterfaceExec(ip *Interpreter, f *frame.Frame) (int, error) {
	pc := f.SavedPC()
	cpIndex, err := u2At(f, pc+1)
	if err != nil {
		return 0, err
	}
	nargs, err := u1At(f, pc+3)
	if err != nil {
		return 0, err
	}
	methodToken, err := u1At(f, pc+4)
	if err != nil {
		return 0, err
	}
	interfaceClass, err := ip.Linker.ResolveClass(f.PackageID, cpIndex)
	if err != nil {
		return 0, err
	}
	recv, err := receiverAt(f, int(nargs)-1)
	if err != nil {
		return 0, err
	}
	receiverClass, err := receiverClassOf(ip, recv.Ref)
	if err != nil {
		return 0, err
	}
	targetPkg, offset, err := ip.Linker.InterfaceDispatch(receiverClass, interfaceClass, methodToken)
	if err != nil {
		return 0, err
	}
	if err := ip.pushCallFrame(f, targetPkg, receiverClass.Offset, offset); err != nil {
		return 0, err
	}
	return pc + 5, nil
}

func opSreturnExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	return 0, ip.doReturn(&w)
}

func opIreturnExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	return 0, ip.doReturn(&w)
}

func opAreturnExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	return 0, ip.doReturn(&w)
}

func opReturnExec(ip *Interpreter, f *frame.Frame) (int, error) {
	return 0, ip.doReturn(nil)
}

// opAthrowExec pops the exception reference and hands it back as a
// *thrown, which Run's dispatch loop routes into unwind instead of
// treating as a fatal error.
func opAthrowExec(ip *Interpreter, f *frame.Frame) (int, error) {
	w, err := f.Pop()
	if err != nil {
		return 0, err
	}
	if !w.IsRef {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "athrow: top of stack is not a reference")
	}
	if w.Ref.IsNull() {
		return 0, jcvmerr.New(jcvmerr.KindNullPointer, "athrow: null exception reference")
	}
	return 0, &thrown{ref: w.Ref}
}
