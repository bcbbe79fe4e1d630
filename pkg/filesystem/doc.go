// Package filesystem provides types.FS implementations: one backed by the
// OS, one backed by afero for in-memory testing.
package filesystem
