// Command callchain walks the a -> b -> c -> d chain (len(os.Args)+2)*2 times.
// Only the number of arguments matters, never their values.
package main

import (
	"os"

	"github.com/aretw0/tracebench/pkg/fixtures/callchain"
)

func main() {
	callchain.Run(os.Stdout, len(os.Args))
}
