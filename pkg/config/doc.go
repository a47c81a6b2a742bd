// Package config resolves ghinit settings from built-in defaults, an
// optional YAML file, a .env file and GHINIT_* environment variables.
package config
