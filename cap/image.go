package cap

import "jcvm/jcvmerr"

// Image is a parsed package image: views into the eleven components of
// spec §4.1, read once and never mutated.
type Image struct {
	Header       *Header
	Directory    *Directory
	Import       ImportTable
	Applet       AppletTable
	ConstantPool ConstantPool
	Class        *ClassComponent
	Method       *MethodComponent
	StaticField  *StaticFieldComponent
	RefLocation  *RefLocationComponent
	Export       *ExportComponent
	Descriptor   *DescriptorComponent
}

// Parse walks the image once, recording a pointer to each known
// component, and rejects duplicate tags and unknown mandatory tags (spec
// §4.1 "Failure").
func Parse(data []byte) (*Image, error) {
	r := NewReader(data)
	seen := make(map[uint8][]byte)

	for !r.EOF() {
		tag, err := r.U1()
		if err != nil {
			return nil, err
		}
		length, err := r.U2()
		if err != nil {
			return nil, err
		}
		body, err := r.Bytes(int(length))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag]; dup {
			return nil, jcvmerr.New(jcvmerr.KindSecurity, "duplicate %s component", tagName(tag))
		}
		seen[tag] = body
	}

	for _, tag := range mandatoryTags {
		if _, ok := seen[tag]; !ok {
			return nil, jcvmerr.New(jcvmerr.KindSecurity, "missing mandatory %s component", tagName(tag))
		}
	}

	img := &Image{}

	header, err := parseHeader(seen[TagHeader])
	if err != nil {
		return nil, err
	}
	img.Header = header

	if _, ok := seen[TagExport]; ok != header.ExportPresent {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "export component presence disagrees with header flag")
	}
	if _, ok := seen[TagApplet]; ok != header.AppletPresent {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "applet component presence disagrees with header flag")
	}

	directory, err := parseDirectory(seen[TagDirectory])
	if err != nil {
		return nil, err
	}
	img.Directory = directory

	for tag, body := range seen {
		if int(directory.ComponentSizes[tag]) != 0 && len(body) != int(directory.ComponentSizes[tag]) {
			return nil, jcvmerr.New(jcvmerr.KindSecurity,
				"%s component size %d disagrees with directory entry %d", tagName(tag), len(body), directory.ComponentSizes[tag])
		}
	}

	importTable, err := parseImportTable(seen[TagImport])
	if err != nil {
		return nil, err
	}
	img.Import = importTable

	if header.AppletPresent {
		appletTable, err := parseAppletTable(seen[TagApplet], directory.AppletCount)
		if err != nil {
			return nil, err
		}
		img.Applet = appletTable
	}

	constantPool, err := parseConstantPool(seen[TagConstPool])
	if err != nil {
		return nil, err
	}
	img.ConstantPool = constantPool

	class, err := parseClassComponent(seen[TagClass])
	if err != nil {
		return nil, err
	}
	img.Class = class

	method, err := parseMethodComponent(seen[TagMethod])
	if err != nil {
		return nil, err
	}
	img.Method = method

	staticField, err := parseStaticFieldComponent(seen[TagStaticField])
	if err != nil {
		return nil, err
	}
	img.StaticField = staticField

	refLocation, err := parseRefLocationComponent(seen[TagRefLocation])
	if err != nil {
		return nil, err
	}
	img.RefLocation = refLocation

	if header.ExportPresent {
		export, err := parseExportComponent(seen[TagExport])
		if err != nil {
			return nil, err
		}
		img.Export = export
	}

	descriptor, err := parseDescriptorComponent(seen[TagDescriptor])
	if err != nil {
		return nil, err
	}
	img.Descriptor = descriptor

	return img, nil
}

// MethodAt returns the method header at a method-component offset,
// faulting as security if it does not exist (spec §4.6 "Invoking an
// abstract method faults as security" depends on first finding the
// header).
func (img *Image) MethodAt(offset uint16) (*MethodHeader, error) {
	m, ok := img.Method.Methods[int(offset)]
	if !ok {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "no method header at offset %d", offset)
	}
	return m, nil
}

// ClassAt returns the class-info record at a class-component offset.
func (img *Image) ClassAt(offset uint16) (*ClassInfo, error) {
	c, ok := img.Class.Classes[int(offset)]
	if !ok {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "no class info at offset %d", offset)
	}
	return c, nil
}

// InterfaceAt returns the interface-info record at a class-component
// offset.
func (img *Image) InterfaceAt(offset uint16) (*InterfaceInfo, error) {
	c, ok := img.Class.Interfaces[int(offset)]
	if !ok {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "no interface info at offset %d", offset)
	}
	return c, nil
}
