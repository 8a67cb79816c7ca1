// Package context implements the execution context of spec §4.7: the
// immutable security context (owning applet), a stack of currently
// executing package ids, the frame stack, and the heap, all scoped to
// one run.
package context

import (
	"jcvm/frame"
	"jcvm/heap"
	"jcvm/jcvmerr"
)

const defaultStackWords = 4096

// Context is one execution's full state. The security context
// (appletID) is fixed at New and never changes for the context's
// lifetime (spec §4.7 "The security context never changes within a
// single run"); it is therefore unexported with no setter.
type Context struct {
	appletID     uint8
	packageStack []uint8

	Frames *frame.Stack
	Heap   *heap.Heap
}

// New creates a context for an applet invocation starting in
// startingPackage (spec §4.7).
func New(appletID uint8, startingPackage uint8) *Context {
	return &Context{
		appletID:     appletID,
		packageStack: []uint8{startingPackage},
		Frames:       frame.NewStack(defaultStackWords),
		Heap:         heap.New(appletID),
	}
}

// AppletID returns the context's immutable security context.
func (c *Context) AppletID() uint8 { return c.appletID }

// CurrentPackage returns the top of the executing-package stack.
func (c *Context) CurrentPackage() uint8 {
	return c.packageStack[len(c.packageStack)-1]
}

// Invoke pushes pkgID onto the executing-package stack, on entry to
// every invoked method, including one in the current package (spec
// §4.7, §4.9).
func (c *Context) Invoke(pkgID uint8) {
	c.packageStack = append(c.packageStack, pkgID)
}

// Return pops the executing-package stack, on every method return
// (spec §4.6 "The current executed package is popped from the
// context's package-id stack on every return").
func (c *Context) Return() error {
	if len(c.packageStack) <= 1 {
		return jcvmerr.New(jcvmerr.KindRuntime, "return: executing-package stack underflow")
	}
	c.packageStack = c.packageStack[:len(c.packageStack)-1]
	return nil
}
