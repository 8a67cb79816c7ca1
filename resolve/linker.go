// Package resolve implements the constant-pool resolver of spec §4.5:
// class, field, and method references resolved lazily from scratch on
// each access, plus virtual/interface dispatch over the class hierarchy.
package resolve

import (
	"bytes"

	"jcvm/cap"
	"jcvm/jcvmerr"
	"jcvm/object"
)

// Linker owns every loaded package's image and implements
// object.Hierarchy so AssignableTo can walk superclass/superinterface
// chains across package boundaries.
type Linker struct {
	images  map[uint8]*cap.Image
	statics map[uint8]*object.Instance
}

// NewLinker returns an empty linker.
func NewLinker() *Linker {
	return &Linker{images: make(map[uint8]*cap.Image)}
}

// AddPackage registers img under runtime package id pkgID.
func (l *Linker) AddPackage(pkgID uint8, img *cap.Image) {
	l.images[pkgID] = img
}

// Image returns the loaded image for pkgID.
func (l *Linker) Image(pkgID uint8) (*cap.Image, error) {
	img, ok := l.images[pkgID]
	if !ok {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "package %d not loaded", pkgID)
	}
	return img, nil
}

// packageByAID performs the linear search spec §4.5 calls for when
// translating an import-table token to a runtime package id.
func (l *Linker) packageByAID(aid []byte) (uint8, bool) {
	for pkgID, img := range l.images {
		if bytes.Equal(img.Header.AID, aid) {
			return pkgID, true
		}
	}
	return 0, false
}

// translateImport resolves an external constant-pool entry's package
// token (an index into the CURRENT package's import table) to a runtime
// package id.
func (l *Linker) translateImport(currentPkg uint8, packageToken uint8) (uint8, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return 0, err
	}
	if int(packageToken) >= len(img.Import) {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "import token %d out of range", packageToken)
	}
	aid := img.Import[packageToken].AID
	pkgID, ok := l.packageByAID(aid)
	if !ok {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "no loaded package matches imported AID")
	}
	return pkgID, nil
}

// ResolveClass resolves constant-pool index cpIndex, expected to be a
// CPClassRef entry, in the context of currentPkg (spec §4.5 "Class
// reference").
func (l *Linker) ResolveClass(currentPkg uint8, cpIndex uint16) (object.ClassRef, error) {
	img, err := l.Image(currentPkg)
	if err != nil {
		return object.ClassRef{}, err
	}
	entry, err := img.ConstantPool.Entry(cpIndex)
	if err != nil {
		return object.ClassRef{}, err
	}
	if entry.Kind != cap.CPClassRef {
		return object.ClassRef{}, jcvmerr.New(jcvmerr.KindSecurity, "constant pool entry %d is not a class reference", cpIndex)
	}
	if !entry.External {
		if entry.Offset == cap.ObjectSentinel {
			return object.ClassRef{IsObject: true}, nil
		}
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
	offset := targetImg.Export.Classes[entry.ClassToken].ClassOffset
	return object.ClassRef{Pkg: targetPkg, Offset: offset}, nil
}

// classInfo fetches c's ClassInfo, which must live in a loaded package.
func (l *Linker) classInfo(c object.ClassRef) (*cap.ClassInfo, error) {
	img, err := l.Image(c.Pkg)
	if err != nil {
		return nil, err
	}
	return img.ClassAt(c.Offset)
}

// SuperOf implements object.Hierarchy.
func (l *Linker) SuperOf(c object.ClassRef) (object.ClassRef, bool) {
	if c.IsObject {
		return object.ClassRef{}, false
	}
	info, err := l.classInfo(c)
	if err != nil || info.Superclass == cap.ObjectSentinel {
		return object.ClassRef{IsObject: true}, info != nil
	}
	return object.ClassRef{Pkg: c.Pkg, Offset: info.Superclass}, true
}

// InterfacesOf implements object.Hierarchy.
func (l *Linker) InterfacesOf(c object.ClassRef) []object.ClassRef {
	info, err := l.classInfo(c)
	if err != nil {
		return nil
	}
	out := make([]object.ClassRef, 0, len(info.Interfaces))
	for _, iface := range info.Interfaces {
		out = append(out, object.ClassRef{Pkg: c.Pkg, Offset: iface.InterfaceClassRef})
	}
	return out
}

// interfaceInfo fetches c's InterfaceInfo.
func (l *Linker) interfaceInfo(c object.ClassRef) (*cap.InterfaceInfo, error) {
	img, err := l.Image(c.Pkg)
	if err != nil {
		return nil, err
	}
	return img.InterfaceAt(c.Offset)
}

// SuperInterfacesOf implements object.Hierarchy.
func (l *Linker) SuperInterfacesOf(c object.ClassRef) []object.ClassRef {
	info, err := l.interfaceInfo(c)
	if err != nil {
		return nil
	}
	out := make([]object.ClassRef, 0, len(info.SuperInterfaces))
	for _, super := range info.SuperInterfaces {
		out = append(out, object.ClassRef{Pkg: c.Pkg, Offset: super})
	}
	return out
}

// InstanceLayout computes the per-slot kind vector for a freshly allocated
// instance of class: every field token in a class's own
// [FirstRefToken, FirstRefToken+RefCount) range is reference-typed at slot
// superSize+token (spec §4.5's slot-index rule, walked from Object down to
// class); every other slot starts uninitialized, becoming byte- or
// short-typed on first access (spec §3's tagged-slot design).
func (l *Linker) InstanceLayout(class object.ClassRef) ([]object.SlotKind, error) {
	var chain []object.ClassRef
	for cur := class; !cur.IsObject; {
		chain = append([]object.ClassRef{cur}, chain...)
		super, ok := l.SuperOf(cur)
		if !ok {
			return nil, jcvmerr.New(jcvmerr.KindSecurity, "broken superclass chain")
		}
		cur = super
	}
	info, err := l.classInfo(class)
	if err != nil {
		return nil, err
	}
	slots := make([]object.SlotKind, info.InstanceSize)
	for _, c := range chain {
		ci, err := l.classInfo(c)
		if err != nil {
			return nil, err
		}
		superSize := 0
		if ci.Superclass != cap.ObjectSentinel {
			superInfo, err := l.classInfo(object.ClassRef{Pkg: c.Pkg, Offset: ci.Superclass})
			if err != nil {
				return nil, err
			}
			superSize = int(superInfo.InstanceSize)
		}
		for i := 0; i < int(ci.RefCount); i++ {
			slots[superSize+int(ci.FirstRefToken)+i] = object.SlotRef
		}
	}
	return slots, nil
}

// IsInterface reports whether c names an interface-info record rather
// than a class-info record; class and interface offsets share one
// numbering space within the class component (spec §4.1 "interleaved
// interface-info and class-info records"), so the two maps must be
// probed separately to tell them apart.
func (l *Linker) IsInterface(c object.ClassRef) bool {
	if c.IsObject {
		return false
	}
	_, err := l.interfaceInfo(c)
	return err == nil
}

// StaticsOf returns the per-package static-field storage area,
// allocating it on first access. The static-field component records
// only a total image size (spec §4.1 "the core uses static-field sizes
// for sizing static areas"), not a per-field layout, so this core
// addresses a static field the same way it addresses an instance field:
// as a slot index into a tagged-slot array, sized in words rather than
// bytes.
func (l *Linker) StaticsOf(pkgID uint8) (*object.Instance, error) {
	if l.statics == nil {
		l.statics = make(map[uint8]*object.Instance)
	}
	if s, ok := l.statics[pkgID]; ok {
		return s, nil
	}
	img, err := l.Image(pkgID)
	if err != nil {
		return nil, err
	}
	s := object.NewInstance(pkgID, 0, make([]object.SlotKind, img.StaticField.ImageSize))
	l.statics[pkgID] = s
	return s, nil
}

var _ object.Hierarchy = (*Linker)(nil)
