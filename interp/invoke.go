package interp

import (
	"jcvm/frame"
	"jcvm/jcvmerr"
	"jcvm/object"
)

// pushCallFrame pops nargs words already sitting on the caller's operand
// stack (spec §4.9: "arguments are not popped by the invoke ... they
// become the new frame's locals[0..nargs-1] by the frame-push rule"),
// slides them into a fresh frame for the method at (targetPkg,
// methodOffset), and transitions the executing-package stack.
func (ip *Interpreter) pushCallFrame(caller *frame.Frame, targetPkg uint8, targetClass uint16, methodOffset uint16) error {
	img, err := ip.Linker.Image(targetPkg)
	if err != nil {
		return err
	}
	method, err := img.MethodAt(methodOffset)
	if err != nil {
		return err
	}
	if method.Abstract {
		return jcvmerr.New(jcvmerr.KindSecurity, "invoking abstract method at offset %d", methodOffset)
	}
	args := make([]frame.Word, method.Nargs)
	for i := int(method.Nargs) - 1; i >= 0; i-- {
		w, err := caller.Pop()
		if err != nil {
			return err
		}
		args[i] = w
	}
	if err := ip.Ctx.Frames.PushArgs(args); err != nil {
		return err
	}
	ip.Ctx.Invoke(targetPkg)
	_, err = ip.Ctx.Frames.PushFrame(targetPkg, targetClass, methodOffset, method.Code, int(method.Nargs), int(method.MaxLocals), int(method.MaxStack))
	return err
}

// doReturn pops the current frame, transfers width words of typed result
// to the caller's operand stack, and pops the executing-package stack
// (spec §4.6 "Pop-frame").
func (ip *Interpreter) doReturn(result *frame.Word) error {
	if err := ip.Ctx.Frames.PopFrame(); err != nil {
		return err
	}
	if err := ip.Ctx.Return(); err != nil {
		return err
	}
	caller := ip.Ctx.Frames.Current()
	if result != nil && caller != nil {
		if err := caller.Push(*result); err != nil {
			return err
		}
	}
	return nil
}

func receiverClassOf(ip *Interpreter, ref object.Reference) (object.ClassRef, error) {
	inst, err := ip.Ctx.Heap.ResolveInstance(ref)
	if err != nil {
		return object.ClassRef{}, err
	}
	return object.ClassRef{Pkg: inst.PackageID, Offset: inst.ClassIndex}, nil
}
