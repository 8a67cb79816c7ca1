package cap

// Directory is the directory component: per-component sizes, the static
// field image size, and the import/applet counts (spec §4.1 "Directory").
//
// Supplemented per SPEC_FULL.md §3: exposed as a full per-component size
// table (not just the two sizes spec.md calls out), the way
// original_source/src/jc_cap/jc_cap_directory.hpp does. Parse checks each
// present component's size against its nonzero entry here; it does not
// check the sum of the sizes against the image length.
type Directory struct {
	ComponentSizes     [12]uint16 // indexed by tag; 0 = absent
	StaticFieldSize    uint16
	ImportCount        uint8
	AppletCount        uint8
}

func parseDirectory(data []byte) (*Directory, error) {
	r := NewReader(data)
	d := &Directory{}

	for tag := uint8(1); tag <= 11; tag++ {
		size, err := r.U2()
		if err != nil {
			return nil, err
		}
		d.ComponentSizes[tag] = size
	}
	sfSize, err := r.U2()
	if err != nil {
		return nil, err
	}
	d.StaticFieldSize = sfSize

	imports, err := r.U1()
	if err != nil {
		return nil, err
	}
	d.ImportCount = imports

	applets, err := r.U1()
	if err != nil {
		return nil, err
	}
	d.AppletCount = applets

	return d, nil
}
