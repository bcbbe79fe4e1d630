package types

import "regexp"

// BoardUnknown is the identifier used when the host board cannot be
// determined. An unknown board is never assumed compatible with a patch
// that constrains its boards.
const BoardUnknown = "unknown"

// IsCompatible decides whether a patch applies to the detected board.
//
// An absent or empty boards list means the patch is unconstrained and
// applies everywhere. Otherwise each pattern is tried in order: a pattern
// accepts the board when it equals it verbatim, or when it matches as a
// prefix-anchored regular expression. The first accepting pattern wins.
func IsCompatible(patch *Patch, board string) bool {
	if len(patch.Boards) == 0 {
		return true
	}
	if board == "" || board == BoardUnknown {
		// Fail closed: an unknown device never matches a constrained patch.
		return false
	}
	for _, pattern := range patch.Boards {
		if pattern == board {
			return true
		}
		re, err := regexp.Compile("^" + pattern)
		if err != nil {
			// An unparseable pattern can only match verbatim, which it
			// already failed to do.
			continue
		}
		if re.MatchString(board) {
			return true
		}
	}
	return false
}
