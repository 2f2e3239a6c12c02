// Package vpath implements the terminal's virtual path model.
//
// Paths are always absolute, start with "/" and never end with "/" unless
// they are the root. Navigation is deliberately restrictive: a single
// relative segment, a single "..", or the literal root "/".
package vpath

import (
	"errors"
	"strings"
)

// Root is the top of every virtual filesystem.
const Root = "/"

var (
	// ErrEmptyTarget is returned when asked to resolve an empty target.
	// Commands handle the "no argument" case before resolving.
	ErrEmptyTarget = errors.New("empty target")

	// ErrAlreadyAtRoot signals ".." was requested from the root. It isn't a
	// failure, callers report it and keep the current path.
	ErrAlreadyAtRoot = errors.New("already at root")

	// ErrAbsolutePath is returned for rooted targets other than "/" itself.
	ErrAbsolutePath = errors.New("absolute paths are not allowed")

	// ErrDotSegment is returned when "." or ".." appear inside a longer
	// target, only a single hop is supported.
	ErrDotSegment = errors.New(". and .. must be used on their own")
)

// Resolve computes the path reached by navigating from current to target.
func Resolve(current, target string) (string, error) {
	current = Clean(current)

	switch {
	case target == "":
		return current, ErrEmptyTarget
	case target == Root:
		return Root, nil
	case target == ".":
		return current, nil
	case target == "..":
		if current == Root {
			return current, ErrAlreadyAtRoot
		}
		return Dir(current), nil
	case strings.HasPrefix(target, "/"):
		return current, ErrAbsolutePath
	case hasDotSegment(target):
		return current, ErrDotSegment
	default:
		return Join(current, target), nil
	}
}

func hasDotSegment(target string) bool {
	for _, segment := range strings.Split(target, "/") {
		if segment == "." || segment == ".." {
			return true
		}
	}
	return false
}

// Join appends a child name to dir.
func Join(dir, name string) string {
	return Clean(dir + "/" + name)
}

// Dir strips the last segment of p, returning the root if none remain.
func Dir(p string) string {
	p = Clean(p)
	idx := strings.LastIndex(p, "/")
	if idx <= 0 {
		return Root
	}
	return p[:idx]
}

// Base returns the last segment of p, or "/" for the root.
func Base(p string) string {
	p = Clean(p)
	if p == Root {
		return Root
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// Ext returns the extension of name without the leading dot, or "" if it
// has none.
func Ext(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}

// Clean enforces the WorkingPath invariant: a leading "/" and no trailing
// "/" (except for the root). Repeated separators are collapsed, other
// segments are kept as-is.
func Clean(p string) string {
	segments := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return Root
	}
	return Root + strings.Join(segments, "/")
}

// IsValid reports whether p already satisfies the WorkingPath invariant.
func IsValid(p string) bool {
	return p == Clean(p)
}
