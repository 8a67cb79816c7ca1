package object

// ClassRef names one class or interface, resolved through the constant
// pool and class component as spec §4.3 requires ("Class and interface
// references in S, T are resolved through the constant pool as per §4.5
// before the comparison"). IsObject marks the root Object sentinel
// (§4.1's 0xFFFF superclass marker resolves to this, package-independent).
type ClassRef struct {
	Pkg      uint8
	Offset   uint16
	IsObject bool
}

// Equal reports whether two class references name the same class.
func (c ClassRef) Equal(o ClassRef) bool {
	if c.IsObject || o.IsObject {
		return c.IsObject == o.IsObject
	}
	return c.Pkg == o.Pkg && c.Offset == o.Offset
}

// TypeKind is one of the four shapes docheckcast compares (spec §4.3).
type TypeKind uint8

const (
	TypeClass TypeKind = iota
	TypeInterface
	TypePrimitiveArray
	TypeReferenceArray
)

// Type is either a class, an interface, or an array of a primitive or
// reference element (spec §4.3).
type Type struct {
	Kind  TypeKind
	Class ClassRef // valid for TypeClass / TypeInterface
	Prim  PrimKind // valid for TypePrimitiveArray
	Elem  *Type    // valid for TypeReferenceArray
}

// Hierarchy answers the class/interface relationship queries
// AssignableTo needs, without object importing the resolver (which in
// turn needs object's Reference/Array/Instance types) — resolve.Linker
// implements this interface.
type Hierarchy interface {
	// SuperOf returns c's direct superclass, or ok=false if c is already
	// Object or c.IsObject.
	SuperOf(c ClassRef) (ClassRef, bool)
	// InterfacesOf returns the interfaces c directly implements (classes
	// only; undefined for interfaces).
	InterfacesOf(c ClassRef) []ClassRef
	// SuperInterfacesOf returns the interfaces c directly extends
	// (interfaces only).
	SuperInterfacesOf(c ClassRef) []ClassRef
}

// AssignableTo implements docheckcast (spec §4.3): S assignable-to T.
func AssignableTo(h Hierarchy, s, t Type) bool {
	switch {
	case s.Kind == TypeClass && t.Kind == TypeClass:
		return classAssignableToClass(h, s.Class, t.Class)
	case s.Kind == TypeClass && t.Kind == TypeInterface:
		return classImplements(h, s.Class, t.Class)
	case s.Kind == TypeInterface && t.Kind == TypeClass:
		return t.Class.IsObject
	case s.Kind == TypeInterface && t.Kind == TypeInterface:
		return interfaceAssignableToInterface(h, s.Class, t.Class)
	case s.Kind == TypePrimitiveArray && t.Kind == TypePrimitiveArray:
		return s.Prim == t.Prim
	case s.Kind == TypeReferenceArray && t.Kind == TypeReferenceArray:
		if s.Elem == nil || t.Elem == nil {
			return false
		}
		return AssignableTo(h, *s.Elem, *t.Elem)
	case (s.Kind == TypePrimitiveArray || s.Kind == TypeReferenceArray) && t.Kind == TypeClass:
		return t.Class.IsObject
	default:
		return false
	}
}

// classAssignableToClass walks s's superclass chain looking for t,
// including s itself. Every class's chain terminates at Object, which is
// assignable-to by every class (an Object-typed t is reached once the
// walk's SuperOf call reports ok=false, the point at which the spec's
// "0xFFFF sentinel = Object" superclass is implicit rather than a
// listed ancestor).
func classAssignableToClass(h Hierarchy, s, t ClassRef) bool {
	if t.IsObject {
		return true
	}
	cur := s
	for {
		if cur.Equal(t) {
			return true
		}
		super, ok := h.SuperOf(cur)
		if !ok {
			return false
		}
		cur = super
	}
}

func classImplements(h Hierarchy, s, t ClassRef) bool {
	cur := s
	for {
		for _, iface := range h.InterfacesOf(cur) {
			if interfaceAssignableToInterface(h, iface, t) {
				return true
			}
		}
		super, ok := h.SuperOf(cur)
		if !ok {
			return false
		}
		cur = super
	}
}

func interfaceAssignableToInterface(h Hierarchy, s, t ClassRef) bool {
	if s.Equal(t) {
		return true
	}
	for _, super := range h.SuperInterfacesOf(s) {
		if interfaceAssignableToInterface(h, super, t) {
			return true
		}
	}
	return false
}
