package commands

import (
	"context"
	"fmt"
	"strings"
)

// Find lists entries of the working directory whose names contain a
// substring, ignoring case. It doesn't descend into subdirectories.
func Find(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		needle := cmd.Flags().Args()[0]

		entries, err := env.list(ctx)
		if err != nil {
			return env.storageFailure(err)
		}
		sortEntries(entries)

		var out []string
		for _, entry := range entries {
			if strings.Contains(strings.ToLower(entry.Name), strings.ToLower(needle)) {
				out = append(out, displayName(entry))
			}
		}

		if len(out) == 0 {
			return Ok(fmt.Sprintf("No entries matching %q", needle))
		}
		return Ok(out...)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "find",
		Use:     "find SUBSTRING",
		Short:   "List entries in the current directory whose names contain SUBSTRING.",
		MinArgs: 1,
		Async:   true,
		Handler: Find,
	})
}
