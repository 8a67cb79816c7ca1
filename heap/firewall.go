package heap

// Firewall implements spec §4.4's firewall predicate: equality of the
// current execution context's security context with the heap's owner.
// No interp handler calls it: every handler reaches objects through the
// running context's own Heap. SetShared's bookkeeping is not consulted
// here (§9 Open Question (b)).
func (h *Heap) Firewall(currentAppletID uint8) bool {
	return h.Owner == currentAppletID
}
