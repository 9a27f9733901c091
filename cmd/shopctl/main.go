// Command shopctl is the single binary shipping both the vendor pricing
// engine ("shopctl serve") and the operator CLI that drives its control
// plane.
package main

import (
	"github.com/andrescamacho/vendor-pricing-engine/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
