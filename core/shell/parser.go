// Package shell splits terminal input into commands.
//
// The grammar is small: a line is a command name followed by
// arguments, separated by runs of whitespace. There are no quotes, escapes,
// pipes or redirections, so a line can always be tokenized.
package shell

import (
	"strings"
)

// Tokenize splits line into a lower-cased command name and its arguments.
// Arguments are returned verbatim, as are ./SCRIPT names since they refer
// to stored files. A blank line has an empty name.
func Tokenize(line string) (name string, args []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	name = fields[0]
	if !strings.HasPrefix(name, "./") {
		name = strings.ToLower(name)
	}
	return name, fields[1:]
}

// IsBlank reports whether line holds no tokens.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
