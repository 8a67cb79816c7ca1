package cap

import "jcvm/jcvmerr"

// Header is the header component: format version, feature flags, and the
// package AID (spec §4.1 "Header").
type Header struct {
	MinorVersion uint8
	MajorVersion uint8

	IntegerSupported bool
	ExportPresent    bool
	AppletPresent    bool

	AID []byte // up to 16 bytes, length-prefixed in the image

	PackageMinorVersion uint8
	PackageMajorVersion uint8
}

const (
	flagIntSupported = 1 << 0
	flagExportPresen = 1 << 1
	flagAppletPresen = 1 << 2
)

func parseHeader(data []byte) (*Header, error) {
	r := NewReader(data)

	minor, err := r.U1()
	if err != nil {
		return nil, err
	}
	major, err := r.U1()
	if err != nil {
		return nil, err
	}
	flags, err := r.U1()
	if err != nil {
		return nil, err
	}
	aidLen, err := r.U1()
	if err != nil {
		return nil, err
	}
	if aidLen > 16 {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "header AID length %d exceeds 16", aidLen)
	}
	aid, err := r.Bytes(int(aidLen))
	if err != nil {
		return nil, err
	}
	pkgMinor, err := r.U1()
	if err != nil {
		return nil, err
	}
	pkgMajor, err := r.U1()
	if err != nil {
		return nil, err
	}

	return &Header{
		MinorVersion:        minor,
		MajorVersion:        major,
		IntegerSupported:    flags&flagIntSupported != 0,
		ExportPresent:       flags&flagExportPresen != 0,
		AppletPresent:       flags&flagAppletPresen != 0,
		AID:                 aid,
		PackageMinorVersion: pkgMinor,
		PackageMajorVersion: pkgMajor,
	}, nil
}
