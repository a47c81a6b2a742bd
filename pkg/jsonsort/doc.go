// Package jsonsort rewrites JSON translation files with their top-level keys
// in ascending code-point order. Values, including nested objects, are kept
// as written; only the order of the top-level keys and the indentation
// change.
package jsonsort
