// Package jcvm wires the package reader, store, resolver, and
// interpreter together behind the single entry point spec §6.4 names.
package jcvm

import (
	"jcvm/cap"
	"jcvm/context"
	"jcvm/frame"
	"jcvm/interp"
	"jcvm/jcvmerr"
	"jcvm/native"
	"jcvm/resolve"
	"jcvm/store"
)

// maxPackages bounds the package-presence bitmap spec §6.2 describes as
// "a 1-bit bitmap over JCVM_MAX_PACKAGES package slots".
const maxPackages = 256

// loadedPackages reads the package-presence bitmap and parses every
// populated package's image into linker.
func loadedPackages(s store.Store, linker *resolve.Linker) error {
	bitmap, err := s.Read(store.PackagesList())
	if err != nil {
		return err
	}
	for id := 0; id < maxPackages; id++ {
		byteIdx, bit := id/8, uint(id%8)
		if byteIdx >= len(bitmap) || bitmap[byteIdx]&(1<<bit) == 0 {
			continue
		}
		data, err := s.Read(store.Cap(uint8(id)))
		if err != nil {
			return err
		}
		img, err := cap.Parse(data)
		if err != nil {
			return err
		}
		linker.AddPackage(uint8(id), img)
	}
	return nil
}

// Run implements spec §6.4: create a context, resolve the entry method
// (via the export component when static, or the class's own method
// table otherwise), push its frame, and drive the interpreter until the
// frame stack empties.
func Run(s store.Store, appletID byte, packageID uint8, classIndex, methodToken uint16, isStatic bool) error {
	linker := resolve.NewLinker()
	if err := loadedPackages(s, linker); err != nil {
		return err
	}

	img, err := linker.Image(packageID)
	if err != nil {
		return err
	}

	var methodOffset uint16
	if isStatic {
		if int(classIndex) >= len(img.Export.Classes) {
			return jcvmerr.New(jcvmerr.KindSecurity, "export class token %d out of range", classIndex)
		}
		methods := img.Export.Classes[classIndex].StaticMethods
		if int(methodToken) >= len(methods) {
			return jcvmerr.New(jcvmerr.KindSecurity, "export static-method token %d out of range", methodToken)
		}
		methodOffset = methods[methodToken]
	} else {
		classInfo, err := img.ClassAt(classIndex)
		if err != nil {
			return err
		}
		methodOffset, err = classInfo.VTableSlot(uint8(methodToken))
		if err != nil {
			return err
		}
	}

	method, err := img.MethodAt(methodOffset)
	if err != nil {
		return err
	}

	ctx := context.New(uint8(appletID), packageID)
	// The entry frame's package is pushed like every invoked frame's, so
	// the return from the entry method pops back to the starting package.
	ctx.Invoke(packageID)
	if err := ctx.Frames.PushArgs(make([]frame.Word, method.Nargs)); err != nil {
		return err
	}
	if _, err := ctx.Frames.PushFrame(packageID, classIndex, methodOffset, method.Code, int(method.Nargs), int(method.MaxLocals), int(method.MaxStack)); err != nil {
		return err
	}

	natives := native.NewTable()
	ip := interp.New(ctx, linker, natives, s)
	return ip.Run()
}
