// Package cmd implements the cobra command trees of the ghinit and sortjson
// binaries.
package cmd
