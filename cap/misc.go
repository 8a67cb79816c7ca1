package cap

// StaticFieldComponent sizes the package's static area; the core uses it
// only for sizing (spec §4.1 "Static field ... as declared by the image
// format; the core uses static-field sizes for sizing static areas").
type StaticFieldComponent struct {
	ImageSize uint16
}

func parseStaticFieldComponent(data []byte) (*StaticFieldComponent, error) {
	r := NewReader(data)
	size, err := r.U2()
	if err != nil {
		return nil, err
	}
	return &StaticFieldComponent{ImageSize: size}, nil
}

// ExportedClass is one exported class and the static fields/methods it
// makes visible to importers (spec §4.1 "Export").
type ExportedClass struct {
	ClassOffset   uint16
	StaticFields  []uint16 // offsets into this package's static-field image
	StaticMethods []uint16 // offsets into this package's method component
}

type ExportComponent struct {
	Classes []ExportedClass
}

func parseExportComponent(data []byte) (*ExportComponent, error) {
	r := NewReader(data)
	count, err := r.U1()
	if err != nil {
		return nil, err
	}
	classes := make([]ExportedClass, count)
	for i := range classes {
		classOffset, err := r.U2()
		if err != nil {
			return nil, err
		}
		fieldCount, err := r.U1()
		if err != nil {
			return nil, err
		}
		fields := make([]uint16, fieldCount)
		for j := range fields {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			fields[j] = v
		}
		methodCount, err := r.U1()
		if err != nil {
			return nil, err
		}
		methods := make([]uint16, methodCount)
		for j := range methods {
			v, err := r.U2()
			if err != nil {
				return nil, err
			}
			methods[j] = v
		}
		classes[i] = ExportedClass{ClassOffset: classOffset, StaticFields: fields, StaticMethods: methods}
	}
	return &ExportComponent{Classes: classes}, nil
}

// RefLocationComponent records, per spec's format, the bytecode offsets
// whose operand is a constant-pool index subject to relocation by an
// installer. The core does not relocate (images are assumed already
// placed) but keeps the raw offset list for completeness and for a
// future installer tool outside this core's scope.
type RefLocationComponent struct {
	Offsets []uint16
}

func parseRefLocationComponent(data []byte) (*RefLocationComponent, error) {
	r := NewReader(data)
	count, err := r.U2()
	if err != nil {
		return nil, err
	}
	offsets := make([]uint16, count)
	for i := range offsets {
		v, err := r.U2()
		if err != nil {
			return nil, err
		}
		offsets[i] = v
	}
	return &RefLocationComponent{Offsets: offsets}, nil
}

// DescriptorComponent is kept opaque: this core resolves types through
// the constant pool and class component directly and never needs
// descriptor strings at run time, but the component is still parsed and
// exposed (as a raw view) so nothing mandatory is silently dropped (spec
// §4.1 lists it as one of the eleven components every reader must expose).
type DescriptorComponent struct {
	Raw []byte
}

func parseDescriptorComponent(data []byte) (*DescriptorComponent, error) {
	return &DescriptorComponent{Raw: data}, nil
}
