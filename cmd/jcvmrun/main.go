// Command jcvmrun loads a package image into a store and drives one
// applet entry point to completion (spec §6.4).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jcvm/cap"
	"jcvm/jcvm"
	"jcvm/store"
)

func main() {
	var (
		verbose    bool
		trace      string
		showStats  bool
		appletID   uint8
		packageID  uint8
		classIndex uint16
		method     uint16
		static     bool
	)

	cmd := &cobra.Command{
		Use:   "jcvmrun <package.cap>",
		Short: "Run one applet entry point from a CAP-style package image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath := args[0]

			data, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("reading package image: %w", err)
			}
			img, err := cap.Parse(data)
			if err != nil {
				return fmt.Errorf("parsing package image: %w", err)
			}

			s := store.NewMap()
			if err := s.Write(store.Cap(packageID), data); err != nil {
				return err
			}
			bitmap := make([]byte, (int(packageID)/8)+1)
			bitmap[packageID/8] |= 1 << (packageID % 8)
			if err := s.Write(store.PackagesList(), bitmap); err != nil {
				return err
			}

			if verbose {
				fmt.Printf("loaded package % x (pkg id %d)\n", img.Header.AID, packageID)
			}
			if trace != "" {
				fmt.Printf("tracing method: %s\n", trace)
			}

			err = jcvm.Run(s, appletID, packageID, classIndex, method, static)

			fmt.Println("---")
			if err != nil {
				return fmt.Errorf("execution error: %w", err)
			}
			fmt.Println("execution completed.")

			if showStats {
				fmt.Println("---")
				fmt.Println("store contents:")
				fmt.Printf("  packages loaded: %d\n", 1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose mode - print loaded package info")
	cmd.Flags().StringVar(&trace, "trace", "", "print the given method name before execution; calls are not traced (e.g., --trace fibonacci)")
	cmd.Flags().BoolVar(&showStats, "stats", false, "show store statistics after execution")
	cmd.Flags().Uint8Var(&appletID, "applet", 0, "applet id owning the security context")
	cmd.Flags().Uint8Var(&packageID, "package", 0, "runtime package id to assign the loaded image")
	cmd.Flags().Uint16Var(&classIndex, "class", 0, "entry class offset, or export-class token when --static")
	cmd.Flags().Uint16Var(&method, "method", 0, "entry method token (vtable slot, or export static-method index when --static)")
	cmd.Flags().BoolVar(&static, "static", false, "resolve the entry method through the export component as a static method")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
