package types

// Patch is one named, versioned change unit from a recipe document.
// Patches are constructed by the recipe loader and immutable afterwards;
// the engine consumes them but never mutates them.
type Patch struct {
	// Title is the human label for this patch. Required; a missing title
	// is a structural error for the whole patch.
	Title string

	// ID is a stable identifier, unique within a recipe document.
	// Optional, but required for selective addressing with --patch.
	ID string

	// Description is informational only and never parsed for behavior.
	Description string

	// Boards is the compatibility predicate: an ordered list of patterns
	// matched against the detected board. Empty means the patch applies
	// to every board.
	Boards []string

	// Tasks run strictly in document order. Order is load-bearing: a file
	// must be downloaded before it can be extracted.
	Tasks []Task
}

// Task is one ordered group of steps from a single recipe task object.
type Task struct {
	Steps []Step
}

// FileSpec describes a single file to fetch, either from a local path or
// from a URL.
type FileSpec struct {
	// Source is a local path or URL. Required.
	Source string

	// Destination is the directory the file is placed in. Required.
	Destination string

	// Move removes the original after a successful copy. Only meaningful
	// for local sources.
	Move bool

	// GithubPath selects a subtree when Source is a repository URL.
	GithubPath string

	// Ignore is a |-separated list of patterns filtering a repository
	// tree fetch. Patterns prefixed with ! are include overrides.
	Ignore string
}

// ExtractSpec describes one archive to expand.
type ExtractSpec struct {
	// Source is the archive path. Required.
	Source string

	// Destination is the directory the archive is expanded into. Required.
	Destination string
}

// ExecutableSpec names one file to mark executable.
type ExecutableSpec struct {
	// Path is the file to chmod. Required.
	Path string
}
