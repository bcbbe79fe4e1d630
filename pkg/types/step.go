package types

// StepKind identifies one of the six task step kinds.
type StepKind string

const (
	StepKindDownload   StepKind = "download"
	StepKindExtract    StepKind = "extract"
	StepKindAlert      StepKind = "alert"
	StepKindExecutable StepKind = "executable"
	StepKindCommand    StepKind = "command"
	StepKindReboot     StepKind = "reboot"
)

// Step is the tagged union over the six task kinds. Each implementation
// carries only its own payload, so an unhandled kind in the engine's
// dispatch is a visible missing case rather than a presence-check bug.
type Step interface {
	Kind() StepKind

	// Describe returns a short human label used in logs and results.
	Describe() string

	// sealed prevents implementations outside this package.
	sealed()
}

// DownloadStep fetches one or more files or repository trees.
type DownloadStep struct {
	Files []FileSpec
}

// ExtractStep expands one or more archives.
type ExtractStep struct {
	Archives []ExtractSpec
}

// AlertStep shows a message and, in interactive contexts, waits for the
// operator to acknowledge it.
type AlertStep struct {
	Message string
}

// ExecutableStep marks one or more files executable.
type ExecutableStep struct {
	Files []ExecutableSpec
}

// CommandStep runs one shell command on the host.
type CommandStep struct {
	Command string
}

// RebootStep requests a host reboot. It carries no payload.
type RebootStep struct{}

func (DownloadStep) Kind() StepKind   { return StepKindDownload }
func (ExtractStep) Kind() StepKind    { return StepKindExtract }
func (AlertStep) Kind() StepKind      { return StepKindAlert }
func (ExecutableStep) Kind() StepKind { return StepKindExecutable }
func (CommandStep) Kind() StepKind    { return StepKindCommand }
func (RebootStep) Kind() StepKind     { return StepKindReboot }

func (s DownloadStep) Describe() string {
	if len(s.Files) == 1 {
		return "download " + s.Files[0].Source
	}
	return "download files"
}

func (s ExtractStep) Describe() string {
	if len(s.Archives) == 1 {
		return "extract " + s.Archives[0].Source
	}
	return "extract archives"
}

func (s AlertStep) Describe() string { return "alert" }

func (s ExecutableStep) Describe() string {
	if len(s.Files) == 1 {
		return "mark executable " + s.Files[0].Path
	}
	return "mark files executable"
}

func (s CommandStep) Describe() string { return "run " + s.Command }

func (RebootStep) Describe() string { return "reboot" }

func (DownloadStep) sealed()   {}
func (ExtractStep) sealed()    {}
func (AlertStep) sealed()      {}
func (ExecutableStep) sealed() {}
func (CommandStep) sealed()    {}
func (RebootStep) sealed()     {}
