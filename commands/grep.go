package commands

import (
	"context"
	"fmt"
	"strings"
)

// Grep prints the lines of a file containing a pattern, ignoring case.
func Grep(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		pattern, name := args[0], args[1]

		entry, err := env.findFile(ctx, name)
		if err != nil {
			return env.storageFailure(err)
		}

		lines, err := env.readLines(ctx, entry.Path)
		if err != nil {
			return env.storageFailure(err)
		}

		needle := strings.ToLower(pattern)
		var out []string
		for i, line := range lines {
			if strings.Contains(strings.ToLower(line), needle) {
				out = append(out, fmt.Sprintf("%d: %s", i+1, line))
			}
		}

		if len(out) == 0 {
			return Ok(fmt.Sprintf("No matches for %q in %s", pattern, name))
		}
		return Ok(out...)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "grep",
		Use:     "grep PATTERN FILE",
		Short:   "Print numbered lines of FILE containing PATTERN, ignoring case.",
		MinArgs: 2,
		Async:   true,
		Handler: Grep,
	})
}
