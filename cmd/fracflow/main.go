// Command fracflow runs the relaxation and spin-pair integrators.
package main

import (
	"github.com/sarchlab/fracflow/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
