// Package version holds build-time version information.
package version

// Version is the current rgpatch version. Overridden at build time with
// -ldflags "-X github.com/arthur-debert/rgpatch/internal/version.Version=...".
var Version = "dev"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// Date is the build date.
var Date = "unknown"
