package resolve

import (
	"jcvm/cap"
	"jcvm/jcvmerr"
	"jcvm/object"
)

// memberClass resolves the class a field/method constant-pool entry is
// declared on: internal entries name it by offset directly, external
// entries name it through the importer's export component by class
// token (spec §4.5).
func (l *Linker) memberClass(currentPkg uint8, entry cap.CPEntry) (object.ClassRef, error) {
	if !entry.External {
		return object.ClassRef{Pkg: currentPkg, Offset: entry.Offset}, nil
	}
	targetPkg, err := l.translateImport(currentPkg, entry.PackageToken)
	if err != nil {
		return object.ClassRef{}, err
	}
	targetImg, err := l.Image(targetPkg)
	if err != nil {
		return object.ClassRef{}, err
	}
	if int(entry.ClassToken) >= len(targetImg.Export.Classes) {
		return object.ClassRef{}, jcvmerr.New(jcvmerr.KindSecurity, "export class token %d out of range", entry.ClassToken)
	}
	return object.ClassRef{Pkg: targetPkg, Offset: targetImg.Export.Classes[entry.ClassToken].ClassOffset}, nil
}

// ResolveInstanceField resolves an instance-field constant-pool entry to
// the declaring class and the field's slot index (spec §4.5: "the field
// token is mapped to a slot index by adding the field token to the size
// of the immediate superclass's instance area").
func (l *Linker) ResolveInstanceField(currentPkg uint8, cpIndex uint16) (object.ClassRef, int, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return object.ClassRef{}, 0, err
	}
	entry, err := img.ConstantPool.Entry(cpIndex)
	if err != nil {
		return object.ClassRef{}, 0, err
	}
	if entry.Kind != cap.CPInstanceFieldRef {
		return object.ClassRef{}, 0, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d is not an instance-field reference", cpIndex)
	}
	class, err := l.memberClass(currentPkg, entry)
	if err != nil {
		return object.ClassRef{}, 0, err
	}
	classInfo, err := l.classInfo(class)
	if err != nil {
		return object.ClassRef{}, 0, err
	}
	superSize := 0
	if classInfo.Superclass != cap.ObjectSentinel {
		superInfo, err := l.classInfo(object.ClassRef{Pkg: class.Pkg, Offset: classInfo.Superclass})
		if err != nil {
			return object.ClassRef{}, 0, err
		}
		superSize = int(superInfo.InstanceSize)
	}
	return class, superSize + int(entry.MemberToken), nil
}

// vtableDispatch looks up token in class's own vtable and returns the
// method offset at that slot, in class's own package. It does not walk
// the superclass chain: a token outside class's table faults.
func (l *Linker) vtableDispatch(class object.ClassRef, token uint8) (uint8, uint16, error) {
	info, err := l.classInfo(class)
	if err != nil {
		return 0, 0, err
	}
	offset, err := info.VTableSlot(token)
	if err != nil {
		return 0, 0, err
	}
	return class.Pkg, offset, nil
}

// ResolveVirtualMethod dispatches a virtual-method constant-pool entry
// against the receiver's actual runtime class (spec §4.5: "Virtual
// dispatch finds the receiver's class, then walks the public- or
// package-virtual method table").
func (l *Linker) ResolveVirtualMethod(currentPkg uint8, cpIndex uint16, receiverClass object.ClassRef) (uint8, uint16, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return 0, 0, err
	}
	entry, err := img.ConstantPool.Entry(cpIndex)
	if err != nil {
		return 0, 0, err
	}
	if entry.Kind != cap.CPVirtualMethodRef {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d is not a virtual-method reference", cpIndex)
	}
	return l.vtableDispatch(receiverClass, entry.MemberToken)
}

// ResolveVirtualMethodNargs resolves a virtual-method constant-pool
// entry's declaring class and looks up its method header purely to read
// Nargs, before the receiver has been popped (spec §4.9: "the receiver is
// the deepest argument on the stack" — Nargs must be known first, and
// every override of a virtual method shares its signature, so the
// statically-named declaring class's own header gives the right count).
func (l *Linker) ResolveVirtualMethodNargs(currentPkg uint8, cpIndex uint16) (int, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return 0, err
	}
	entry, err := img.ConstantPool.Entry(cpIndex)
	if err != nil {
		return 0, err
	}
	if entry.Kind != cap.CPVirtualMethodRef {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d is not a virtual-method reference", cpIndex)
	}
	class, err := l.memberClass(currentPkg, entry)
	if err != nil {
		return 0, err
	}
	pkgID, offset, err := l.vtableDispatch(class, entry.MemberToken)
	if err != nil {
		return 0, err
	}
	targetImg, err := l.Image(pkgID)
	if err != nil {
		return 0, err
	}
	method, err := targetImg.MethodAt(offset)
	if err != nil {
		return 0, err
	}
	return int(method.Nargs), nil
}

// ResolveSuperMethod dispatches a super-method constant-pool entry
// against currentClass's superclass directly, without virtual lookup
// (spec §4.5).
func (l *Linker) ResolveSuperMethod(currentPkg uint8, cpIndex uint16, currentClass object.ClassRef) (uint8, uint16, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return 0, 0, err
	}
	entry, err := img.ConstantPool.Entry(cpIndex)
	if err != nil {
		return 0, 0, err
	}
	if entry.Kind != cap.CPSuperMethodRef {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d is not a super-method reference", cpIndex)
	}
	super, ok := l.SuperOf(currentClass)
	if !ok || super.IsObject {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "invokesuper has no superclass to dispatch on")
	}
	return l.vtableDispatch(super, entry.MemberToken)
}

// ResolveStaticField resolves a static-field constant-pool entry to its
// owning package and 16-bit offset into that package's static-field
// image.
func (l *Linker) ResolveStaticField(currentPkg uint8, cpIndex uint16) (uint8, uint16, error) {
	return l.resolveStaticMember(currentPkg, cpIndex, cap.CPStaticFieldRef, func(ec cap.ExportedClass) []uint16 { return ec.StaticFields })
}

// ResolveStaticMethod resolves a static-method constant-pool entry to
// its owning package and offset into that package's method component.
func (l *Linker) ResolveStaticMethod(currentPkg uint8, cpIndex uint16) (uint8, uint16, error) {
	return l.resolveStaticMember(currentPkg, cpIndex, cap.CPStaticMethodRef, func(ec cap.ExportedClass) []uint16 { return ec.StaticMethods })
}

// ResolveInvokespecial resolves an invokespecial target by reusing the
// static-method-ref resolution path (spec §4.9: "invokespecial bypasses
// virtual dispatch ... interpreted without lookup"; spec.md's six
// constant-pool entry kinds have no dedicated special-method-ref kind, and
// direct non-virtual method-offset resolution is structurally identical to
// static-method resolution's internal/external lookup). Also returns the
// declaring class, so the new frame knows its own class for a subsequent
// invokesuper.
func (l *Linker) ResolveInvokespecial(currentPkg uint8, cpIndex uint16) (uint8, uint16, object.ClassRef, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return 0, 0, object.ClassRef{}, err
	}
	entry, err := img.ConstantPool.Entry(cpIndex)
	if err != nil {
		return 0, 0, object.ClassRef{}, err
	}
	if entry.Kind != cap.CPStaticMethodRef {
		return 0, 0, object.ClassRef{}, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d is not usable for invokespecial", cpIndex)
	}
	class, err := l.memberClass(currentPkg, entry)
	if err != nil {
		return 0, 0, object.ClassRef{}, err
	}
	pkgID, offset, err := l.resolveStaticMember(currentPkg, cpIndex, cap.CPStaticMethodRef, func(ec cap.ExportedClass) []uint16 { return ec.StaticMethods })
	if err != nil {
		return 0, 0, object.ClassRef{}, err
	}
	return pkgID, offset, class, nil
}

func (l *Linker) resolveStaticMember(currentPkg uint8, cpIndex uint16, wantKind cap.CPEntryKind, list func(cap.ExportedClass) []uint16) (uint8, uint16, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return 0, 0, err
	}
	entry, err := img.ConstantPool.Entry(cpIndex)
	if err != nil {
		return 0, 0, err
	}
	if entry.Kind != wantKind {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d has unexpected kind", cpIndex)
	}
	if !entry.External {
		return currentPkg, entry.Offset, nil
	}
	targetPkg, err := l.translateImport(currentPkg, entry.PackageToken)
	if err != nil {
		return 0, 0, err
	}
	targetImg, err := l.Image(targetPkg)
	if err != nil {
		return 0, 0, err
	}
	if int(entry.ClassToken) >= len(targetImg.Export.Classes) {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "export class token %d out of range", entry.ClassToken)
	}
	members := list(targetImg.Export.Classes[entry.ClassToken])
	if int(entry.MemberToken) >= len(members) {
		return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "export member token %d out of range", entry.MemberToken)
	}
	return targetPkg, members[entry.MemberToken], nil
}

// InterfaceDispatch implements spec §4.5's interface dispatch: find, in
// the receiver's class-info's implemented-interface list, the record
// whose interface ref equals interfaceClass; index into its token-remap
// array by interfaceMethodToken to get a class-local method token, then
// apply virtual dispatch for that token.
func (l *Linker) InterfaceDispatch(receiverClass object.ClassRef, interfaceClass object.ClassRef, interfaceMethodToken uint8) (uint8, uint16, error) {
	info, err := l.classInfo(receiverClass)
	if err != nil {
		return 0, 0, err
	}
	for _, impl := range info.Interfaces {
		if impl.InterfaceClassRef != interfaceClass.Offset {
			continue
		}
		if int(interfaceMethodToken) >= len(impl.MethodTokenMap) {
			return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "interface method token %d out of range", interfaceMethodToken)
		}
		classToken := impl.MethodTokenMap[interfaceMethodToken]
		return l.vtableDispatch(receiverClass, classToken)
	}
	return 0, 0, jcvmerr.New(jcvmerr.KindSecurity, "receiver's class does not implement the resolved interface")
}
