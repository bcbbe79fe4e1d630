// Package types defines the core data model shared across rgpatch:
// recipes, patches, task steps, execution context and results, and the
// small interfaces (FS, UI) that decouple the engine from the host
// filesystem and the presentation layer.
package types
