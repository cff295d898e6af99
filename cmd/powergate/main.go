// Package main is the entrypoint for powergate, a resource-safety checker
// and power-budgeted admission simulator.
package main

import "github.com/tutu-network/powergate/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
