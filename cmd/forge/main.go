// Package main provides the forge CLI.
package main

import "github.com/mesh-intelligence/forge/internal/cli"

func main() {
	cli.Execute()
}
