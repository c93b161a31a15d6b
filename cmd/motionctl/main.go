// Command motionctl inspects variant files and plays presence scripts
// without a renderer.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
