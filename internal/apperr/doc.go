// Package apperr defines shared error sentinels for simulor.
// It is a leaf package with no internal imports, allowing any package
// (including low-level infrastructure like the Longbridge client) to use
// the sentinels without creating import cycles.
package apperr
