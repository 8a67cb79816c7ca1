package cap

import "jcvm/jcvmerr"

// ObjectSentinel is the superclass reference value meaning "this class's
// superclass is the root Object class" (spec §4.1 "Class").
const ObjectSentinel uint16 = 0xFFFF

const classFlagInterface = 1 << 0

// ImplementedInterface maps one implemented interface's method tokens to
// class-local method tokens (spec §4.1 "Class": "a list of
// implemented-interface records each mapping the interface's method
// tokens to class-local method tokens").
type ImplementedInterface struct {
	InterfaceClassRef uint16 // offset into the class component, or cp offset for an imported interface
	MethodTokenMap    []uint8
}

// ClassInfo is one class-info record (spec §4.1 "Class").
type ClassInfo struct {
	Offset int // byte offset of this record within the class component; doubles as its "class index"

	IsInterface bool
	Superclass  uint16 // ObjectSentinel = Object

	InstanceSize  uint16
	FirstRefToken uint8
	RefCount      uint8

	PublicVTableBase  uint16
	PublicVTableCount uint8

	PackageVTableBase  uint16
	PackageVTableCount uint8

	VTable []uint16 // concatenated public then package method-offset table

	Interfaces []ImplementedInterface
}

// InterfaceInfo is one interface-info record: an interface's own
// superinterface list (spec §4.1 "Class": "interleaved interface-info and
// class-info records").
type InterfaceInfo struct {
	Offset           int
	SuperInterfaces  []uint16
}

// ClassComponent holds every class-info and interface-info record of a
// package, keyed by their byte offset (the "class index" the resolver's
// internal class references name, spec §4.5).
type ClassComponent struct {
	Classes    map[int]*ClassInfo
	Interfaces map[int]*InterfaceInfo
}

const (
	recordKindClass     = 0
	recordKindInterface = 1
)

func parseClassComponent(data []byte) (*ClassComponent, error) {
	r := NewReader(data)
	cc := &ClassComponent{
		Classes:    make(map[int]*ClassInfo),
		Interfaces: make(map[int]*InterfaceInfo),
	}

	for !r.EOF() {
		offset := r.Position()
		kind, err := r.U1()
		if err != nil {
			return nil, err
		}
		switch kind {
		case recordKindInterface:
			ii, err := parseInterfaceInfo(r)
			if err != nil {
				return nil, err
			}
			ii.Offset = offset
			cc.Interfaces[offset] = ii
		case recordKindClass:
			ci, err := parseClassInfo(r)
			if err != nil {
				return nil, err
			}
			ci.Offset = offset
			cc.Classes[offset] = ci
		default:
			return nil, jcvmerr.New(jcvmerr.KindSecurity, "class component record at %d has unknown kind %d", offset, kind)
		}
	}
	return cc, nil
}

func parseInterfaceInfo(r *Reader) (*InterfaceInfo, error) {
	count, err := r.U1()
	if err != nil {
		return nil, err
	}
	supers := make([]uint16, count)
	for i := range supers {
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		supers[i] = v
	}
	return &InterfaceInfo{SuperInterfaces: supers}, nil
}

func parseClassInfo(r *Reader) (*ClassInfo, error) {
	flags, err := r.U1()
	if err != nil {
		return nil, err
	}
	super, err := r.U2()
	if err != nil {
		return nil, err
	}
	instSize, err := r.U2()
	if err != nil {
		return nil, err
	}
	firstRef, err := r.U1()
	if err != nil {
		return nil, err
	}
	refCount, err := r.U1()
	if err != nil {
		return nil, err
	}
	pubBase, err := r.U2()
	if err != nil {
		return nil, err
	}
	pubCount, err := r.U1()
	if err != nil {
		return nil, err
	}
	pkgBase, err := r.U2()
	if err != nil {
		return nil, err
	}
	pkgCount, err := r.U1()
	if err != nil {
		return nil, err
	}

	vtable := make([]uint16, int(pubCount)+int(pkgCount))
	for i := range vtable {
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		vtable[i] = v
	}

	ifaceCount, err := r.U1()
	if err != nil {
		return nil, err
	}
	ifaces := make([]ImplementedInterface, ifaceCount)
	for i := range ifaces {
		ifaceRef, err := r.U2()
		if err != nil {
			return nil, err
		}
		tokenCount, err := r.U1()
		if err != nil {
			return nil, err
		}
		tokens := make([]uint8, tokenCount)
		for j := range tokens {
			t, err := r.U1()
			if err != nil {
				return nil, err
			}
			tokens[j] = t
		}
		ifaces[i] = ImplementedInterface{InterfaceClassRef: ifaceRef, MethodTokenMap: tokens}
	}

	return &ClassInfo{
		IsInterface:        flags&classFlagInterface != 0,
		Superclass:         super,
		InstanceSize:       instSize,
		FirstRefToken:      firstRef,
		RefCount:           refCount,
		PublicVTableBase:   pubBase,
		PublicVTableCount:  pubCount,
		PackageVTableBase:  pkgBase,
		PackageVTableCount: pkgCount,
		VTable:             vtable,
		Interfaces:         ifaces,
	}, nil
}

// VTableSlot returns the method-table offset for a token, selecting the
// public or package table by bit 7 of the token (spec §4.5 "Virtual-method
// reference").
func (c *ClassInfo) VTableSlot(token uint8) (uint16, error) {
	packagePrivate := token&0x80 != 0
	index := int(token & 0x7F)
	if packagePrivate {
		if index >= int(c.PackageVTableCount) {
			return 0, jcvmerr.New(jcvmerr.KindSecurity, "package vtable token %d out of range", token)
		}
		return c.VTable[int(c.PublicVTableCount)+index], nil
	}
	if index >= int(c.PublicVTableCount) {
		return 0, jcvmerr.New(jcvmerr.KindSecurity, "public vtable token %d out of range", token)
	}
	return c.VTable[index], nil
}
