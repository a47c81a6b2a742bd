// Package output renders command results as JSON, YAML or aligned tables.
package output
