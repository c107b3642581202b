// Command fibtracer-late is the variant of fibtracer that checks for the deep
// frame after the recursive calls and zeroes the first F(2) node of the last run.
// Arguments are ignored.
package main

import (
	"os"

	"github.com/aretw0/tracebench/pkg/fixtures/fibtracer"
)

func main() {
	fibtracer.Run(os.Stdout, fibtracer.DefaultN, fibtracer.Late)
}
