// Package forge holds build metadata for the forge asset catalogue.
package forge

// Version is the current release of forge.
const Version = "0.1.0"

// ModulePath is the Go module path of forge.
const ModulePath = "github.com/mesh-intelligence/forge"
