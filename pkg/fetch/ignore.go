package fetch

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/rgpatch/pkg/errors"
)

// ignoreFilter decides which files of a tree fetch to skip.
//
// The on-recipe form is a single string of |-separated regular
// expressions. A pattern prefixed with ! is an include override; all
// others are excludes. A relative path is kept when it matches no exclude
// pattern, or when it matches at least one include pattern (include wins
// over exclude). An empty spec keeps everything.
type ignoreFilter struct {
	excludes []*regexp.Regexp
	includes []*regexp.Regexp
}

func parseIgnore(spec string) (*ignoreFilter, error) {
	f := &ignoreFilter{}
	if strings.TrimSpace(spec) == "" {
		return f, nil
	}
	for _, raw := range strings.Split(spec, "|") {
		pattern := raw
		include := false
		if strings.HasPrefix(pattern, "!") {
			include = true
			pattern = pattern[1:]
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid ignore pattern %q", raw)
		}
		if include {
			f.includes = append(f.includes, re)
		} else {
			f.excludes = append(f.excludes, re)
		}
	}
	return f, nil
}

// Skip reports whether the relative path should be skipped.
func (f *ignoreFilter) Skip(rel string) bool {
	excluded := false
	for _, re := range f.excludes {
		if re.MatchString(rel) {
			excluded = true
			break
		}
	}
	if !excluded {
		return false
	}
	for _, re := range f.includes {
		if re.MatchString(rel) {
			return false
		}
	}
	return true
}
