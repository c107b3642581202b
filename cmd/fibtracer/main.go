// Command fibtracer prints Fibonacci numbers 0..4 computed by naive recursion,
// printing "Deep!" once when the last run reaches the base case n == 0.
// Arguments are ignored.
package main

import (
	"os"

	"github.com/aretw0/tracebench/pkg/fixtures/fibtracer"
)

func main() {
	fibtracer.Run(os.Stdout, fibtracer.DefaultN, fibtracer.Early)
}
