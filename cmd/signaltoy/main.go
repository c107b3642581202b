// Command signaltoy raises SIGTERM at itself once; its handler re-raises the
// signal a single time, producing two nested deliveries.
package main

import (
	"os"

	"github.com/aretw0/tracebench/pkg/fixtures/signaltoy"
)

func main() {
	raiser := signaltoy.NewOSRaiser()
	defer raiser.Stop()

	// Delivery failures are not modeled; the fixture always exits 0.
	_, _ = signaltoy.Run(os.Stdout, raiser)
}
