package cap

// Component tags. Order follows spec §4.1's component list; values are
// this core's own tag-byte assignment (the spec does not mandate specific
// numbers, only that each component carries a one-byte tag and a
// two-byte big-endian length).
const (
	TagHeader      uint8 = 1
	TagDirectory   uint8 = 2
	TagImport      uint8 = 3
	TagApplet      uint8 = 4
	TagConstPool   uint8 = 5
	TagClass       uint8 = 6
	TagMethod      uint8 = 7
	TagStaticField uint8 = 8
	TagRefLocation uint8 = 9
	TagExport      uint8 = 10
	TagDescriptor  uint8 = 11
)

// mandatory components must be present in every image; export and applet
// are conditional on the header's Export_present / Applet_present flags.
var mandatoryTags = []uint8{
	TagHeader, TagDirectory, TagImport, TagConstPool,
	TagClass, TagMethod, TagStaticField, TagRefLocation, TagDescriptor,
}

func tagName(tag uint8) string {
	switch tag {
	case TagHeader:
		return "header"
	case TagDirectory:
		return "directory"
	case TagImport:
		return "import"
	case TagApplet:
		return "applet"
	case TagConstPool:
		return "constant pool"
	case TagClass:
		return "class"
	case TagMethod:
		return "method"
	case TagStaticField:
		return "static field"
	case TagRefLocation:
		return "reference location"
	case TagExport:
		return "export"
	case TagDescriptor:
		return "descriptor"
	default:
		return "unknown"
	}
}
