// Package heap implements the per-context live-object registries of
// spec §4.4: two growable, one-indexed arrays (instances, arrays) with
// reference resolution that checks null before kind-mismatch, and the
// firewall predicate (equality of security contexts).
package heap

import (
	"jcvm/jcvmerr"
	"jcvm/object"
)

// Heap owns one context's live objects. Index 0 in both registries is
// reserved for null and never allocated into.
type Heap struct {
	Owner uint8 // applet id that owns this heap (spec §4.4's security context)

	instances []*object.Instance
	arrays    []*object.Array

	// sharedInstances/sharedArrays hold one shared flag per object, indexed
	// the same way as instances/arrays (§9 Open Question (b) hook for a
	// future shareable-interface policy; unconsulted by Firewall today).
	sharedInstances []bool
	sharedArrays    []bool
}

// New returns an empty heap owned by the given applet id.
func New(owner uint8) *Heap {
	return &Heap{
		Owner:           owner,
		instances:       make([]*object.Instance, 1), // index 0 reserved
		arrays:          make([]*object.Array, 1),
		sharedInstances: make([]bool, 1),
		sharedArrays:    make([]bool, 1),
	}
}

// AllocInstance appends inst to the instance registry and returns its
// reference.
func (h *Heap) AllocInstance(inst *object.Instance) object.Reference {
	idx := uint16(len(h.instances))
	h.instances = append(h.instances, inst)
	h.sharedInstances = append(h.sharedInstances, false)
	return object.MakeReference(false, idx)
}

// AllocArray appends a to the array registry and returns its reference.
func (h *Heap) AllocArray(a *object.Array) object.Reference {
	idx := uint16(len(h.arrays))
	h.arrays = append(h.arrays, a)
	h.sharedArrays = append(h.sharedArrays, false)
	return object.MakeReference(true, idx)
}

// SetShared marks r's object as a shareable interface object (§9 Open
// Question (b)); Firewall does not yet consult this.
func (h *Heap) SetShared(r object.Reference, shared bool) error {
	if r.IsNull() {
		return jcvmerr.New(jcvmerr.KindNullPointer, "null reference")
	}
	idx := int(r.Index())
	if r.IsArray() {
		if idx <= 0 || idx >= len(h.sharedArrays) {
			return jcvmerr.New(jcvmerr.KindSecurity, "array reference %d out of range", idx)
		}
		h.sharedArrays[idx] = shared
		return nil
	}
	if idx <= 0 || idx >= len(h.sharedInstances) {
		return jcvmerr.New(jcvmerr.KindSecurity, "instance reference %d out of range", idx)
	}
	h.sharedInstances[idx] = shared
	return nil
}

// ResolveInstance resolves r to a live instance. Null is checked before
// the discriminator-kind check (spec §4.4's mandated order).
func (h *Heap) ResolveInstance(r object.Reference) (*object.Instance, error) {
	if r.IsNull() {
		return nil, jcvmerr.New(jcvmerr.KindNullPointer, "null instance reference")
	}
	if r.IsArray() {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "reference %d names an array, not an instance", r.Index())
	}
	idx := int(r.Index())
	if idx <= 0 || idx >= len(h.instances) || h.instances[idx] == nil {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "instance reference %d out of range", idx)
	}
	return h.instances[idx], nil
}

// ResolveArray resolves r to a live array, with the same null-then-kind
// ordering as ResolveInstance.
func (h *Heap) ResolveArray(r object.Reference) (*object.Array, error) {
	if r.IsNull() {
		return nil, jcvmerr.New(jcvmerr.KindNullPointer, "null array reference")
	}
	if !r.IsArray() {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "reference %d names an instance, not an array", r.Index())
	}
	idx := int(r.Index())
	if idx <= 0 || idx >= len(h.arrays) || h.arrays[idx] == nil {
		return nil, jcvmerr.New(jcvmerr.KindSecurity, "array reference %d out of range", idx)
	}
	return h.arrays[idx], nil
}

// Resolve resolves r to either a live instance or array, dispatching on
// its discriminator bit.
func (h *Heap) Resolve(r object.Reference) (any, error) {
	if r.IsNull() {
		return nil, jcvmerr.New(jcvmerr.KindNullPointer, "null reference")
	}
	if r.IsArray() {
		return h.ResolveArray(r)
	}
	return h.ResolveInstance(r)
}
