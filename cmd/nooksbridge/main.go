// Package main is the single-binary entrypoint for nooksbridge,
// the reward and progression engine behind Nook & Hook.
package main

import "github.com/nooksandhook-ux/NOOKSBRIDGE/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
