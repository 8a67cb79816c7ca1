package store

import (
	"encoding/binary"
	"fmt"
)

// Tag-composition rules (spec §6.2). Keys are short byte strings; the
// core never inspects their structure, only equality, so these are
// plain string-building helpers rather than a binary format. Tag length
// stays well under the 32-byte bound spec §6.2 mentions.

// PackagesList is the tag for the package-presence bitmap.
func PackagesList() string {
	return "pl"
}

// Cap is the tag for one package's image bytes.
func Cap(pkgID uint8) string {
	return fmt.Sprintf("c:%02x", pkgID)
}

// Static is the tag for one static field, or one static primitive-array
// record addressed positionally.
func Static(pkgID uint8, staticID uint16) string {
	return fmt.Sprintf("s:%02x:%04x", pkgID, staticID)
}

// AppletField is the tag for one persistent instance field of an
// applet-owned object.
func AppletField(appletID, pkgID uint8, classIdx uint16, fieldNo uint16) string {
	return fmt.Sprintf("f:%02x:%02x:%04x:%04x", appletID, pkgID, classIdx, fieldNo)
}

// Object is the base tag for one freshly allocated persistent object's
// (instance or array) own header record, identified by the applet that
// allocated it and its live-heap registry index. Spec §6.2 names four
// fixed tag schemas, none of which address an arbitrary `new`/`newarray`
// allocation directly (`applet_field` already names a specific field of
// an already-known object); this is the core's own scheme for minting
// the "new tag" §3's Lifecycles paragraph says every persistent
// allocation requires, reusing the heap's own reference index as the
// per-run object identity.
func Object(appletID uint8, isArray bool, index uint16) string {
	kind := byte('i')
	if isArray {
		kind = 'a'
	}
	return fmt.Sprintf("o:%02x:%c:%04x", appletID, kind, index)
}

// ArrayElement appends the 2-byte big-endian element index to a base
// array tag, as spec §6.2 requires for reference-array elements.
func ArrayElement(baseTag string, index uint16) string {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], index)
	return baseTag + string(b[:])
}
