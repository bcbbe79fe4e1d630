package main

// Short messages (one-liners)
const (
	MsgRootShort     = "Apply declarative patch recipes to RG handhelds"
	MsgApplyShort    = "Apply patches from a recipe"
	MsgValidateShort = "Validate a recipe without touching the system"
	MsgListShort     = "List the patches in a recipe"
	MsgListLong      = "List displays every patch in the recipe, its target boards, and whether it parsed cleanly."
	MsgBoardShort    = "Print the detected board identifier"
	MsgConfigShort   = "Show the effective configuration"
	MsgVersionShort  = "Print version information"
	MsgManShort      = "Generate man page"

	// Flag help
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview every action without writing, executing, or rebooting"
	MsgFlagRecipe  = "Path to the recipe file"
	MsgFlagYes     = "Assume yes on every confirmation prompt"
	MsgFlagFormat  = "Output format: auto, term, text, or json"
	MsgFlagWrite   = "Write the default configuration to the user config path"
)

// Long messages
const (
	MsgRootLong = `rgpatch applies declarative patch recipes to Anbernic RG-family handhelds.

A recipe is a YAML file describing one or more patches. Each patch names the
boards it applies to and the tasks it performs: downloading files, extracting
archives, marking scripts executable, running shell commands, alerting the
operator, and rebooting the device.

Run 'rgpatch help recipes' for the recipe format and 'rgpatch help modes'
for how validate, dry-run, and live execution differ.`

	MsgApplyLong = `Apply runs every compatible patch in the recipe against this device.

Before anything is written the recipe is validated end to end; a recipe that
fails validation is never partially applied. Pass --dry-run to see exactly
what would happen, or a patch id to apply a single patch.`

	MsgValidateLong = `Validate parses the recipe and checks every patch without downloading,
extracting, executing, or rebooting. It reports the same pass or fail result
the live pre-flight check would.`
)
