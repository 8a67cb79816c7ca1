package cap

// AppletEntry is one entry of the applet component: an applet's AID and
// the method offset of its install entry point (spec §4.1 "Applet").
type AppletEntry struct {
	AID          []byte
	InstallOffset uint16
}

type AppletTable []AppletEntry

func parseAppletTable(data []byte, count uint8) (AppletTable, error) {
	r := NewReader(data)
	table := make(AppletTable, count)
	for i := range table {
		aidLen, err := r.U1()
		if err != nil {
			return nil, err
		}
		aid, err := r.Bytes(int(aidLen))
		if err != nil {
			return nil, err
		}
		offset, err := r.U2()
		if err != nil {
			return nil, err
		}
		table[i] = AppletEntry{AID: aid, InstallOffset: offset}
	}
	return table, nil
}
