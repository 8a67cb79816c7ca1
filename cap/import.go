package cap

// ImportEntry is one entry of the import component: an imported package's
// AID plus its required version (spec §4.1 "Import").
type ImportEntry struct {
	AID          []byte
	MinorVersion uint8
	MajorVersion uint8
}

type ImportTable []ImportEntry

func parseImportTable(data []byte) (ImportTable, error) {
	r := NewReader(data)
	count, err := r.U1()
	if err != nil {
		return nil, err
	}
	table := make(ImportTable, count)
	for i := range table {
		minor, err := r.U1()
		if err != nil {
			return nil, err
		}
		major, err := r.U1()
		if err != nil {
			return nil, err
		}
		aidLen, err := r.U1()
		if err != nil {
			return nil, err
		}
		aid, err := r.Bytes(int(aidLen))
		if err != nil {
			return nil, err
		}
		table[i] = ImportEntry{AID: aid, MinorVersion: minor, MajorVersion: major}
	}
	return table, nil
}

// IndexOf returns the import-table index (the "package token") whose AID
// matches aid, or -1. Resolution of an external class reference (spec
// §4.5) translates a package token to a runtime package id by a linear
// search like this one over the package registry.
func (t ImportTable) IndexOf(aid []byte) int {
	for i, e := range t {
		if string(e.AID) == string(aid) {
			return i
		}
	}
	return -1
}
