package types

import (
	"io"
	"io/fs"
)

// FS abstracts the filesystem operations rgpatch performs, so the
// resolver and extractor can run against an in-memory filesystem in tests
// and the validate mode can be proven write-free.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Open opens a file for reading. Local copies stream through this
	// instead of buffering whole firmware images in memory.
	Open(name string) (io.ReadCloser, error)

	// Create opens a file for writing, truncating it if it exists.
	// Downloads stream through this instead of buffering whole firmware
	// images in memory.
	Create(name string) (io.WriteCloser, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
	Chmod(name string, mode fs.FileMode) error
}

// UI is the presentation-layer contract. The engine calls it synchronously
// from alert and reboot handling and from the top-level install
// confirmation, and only when the run is interactive; non-interactive runs
// substitute the defaults without calling the UI at all.
type UI interface {
	// Confirm asks the operator a yes/no question. def is the answer
	// assumed when the operator just accepts the prompt.
	Confirm(message string, def bool) bool

	// Notify shows an informational message to the operator.
	Notify(message string)
}
