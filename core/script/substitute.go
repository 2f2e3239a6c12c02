// Package script expands placeholders in stored terminal scripts.
package script

import (
	"regexp"
	"strconv"
	"strings"
)

// Vars are the values available to a script run.
type Vars struct {
	// Args are the positional arguments, $1 is Args[0].
	Args []string
	// PWD is the working path the script was invoked in.
	PWD string
	// User is the caller identity.
	User string
}

// Line is a substituted script line.
type Line struct {
	// Number is the 1-based line number in the original text.
	Number int
	Text   string
}

var placeholder = regexp.MustCompile(`\$(\d+|@|\w+)`)

// Substitute expands every runnable line of text.
//
// Blank lines and lines starting with # are dropped, as are lines left
// blank once expanded. $1..$N, $@, $PWD and $USER are replaced in a single
// pass; unknown names and positions past the last argument are left as
// written.
func Substitute(text string, vars Vars) []Line {
	var out []Line
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if IsSkipped(raw) {
			continue
		}

		expanded := Expand(raw, vars)
		if strings.TrimSpace(expanded) == "" {
			continue
		}

		out = append(out, Line{
			Number: i + 1,
			Text:   expanded,
		})
	}
	return out
}

// IsSkipped reports whether a script line is a comment or blank.
func IsSkipped(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// Expand replaces the placeholders in a single line.
func Expand(line string, vars Vars) string {
	return placeholder.ReplaceAllStringFunc(line, func(match string) string {
		if value, ok := vars.lookup(match[1:]); ok {
			return value
		}
		return match
	})
}

func (v Vars) lookup(name string) (string, bool) {
	switch name {
	case "@":
		return strings.Join(v.Args, " "), true
	case "PWD":
		return v.PWD, true
	case "USER":
		return v.User, true
	}

	k, err := strconv.Atoi(name)
	if err != nil || k < 1 || k > len(v.Args) {
		return "", false
	}
	return v.Args[k-1], true
}
