package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Stat describes an entry of the working directory.
func Stat(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		entry, err := env.findEntry(ctx, cmd.Flags().Args()[0])
		if err != nil {
			return env.storageFailure(err)
		}

		var out []string
		field := func(label, value string) {
			out = append(out, fmt.Sprintf("%-10s %s", label+":", value))
		}
		field("Name", entry.Name)
		field("Kind", entry.Kind.String())
		field("Path", entry.Path)
		field("Size", fmt.Sprintf("%d bytes (%s)", entry.Size, humanize.Bytes(uint64(entry.Size))))
		field("Created", entry.CreatedAt.Format(time.RFC3339))
		field("Modified", entry.ModifiedAt.Format(time.RFC3339))
		if entry.Extension != "" {
			field("Extension", entry.Extension)
		}
		return Ok(out...)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "stat",
		Use:     "stat NAME",
		Short:   "Show the kind, size, path, timestamps and extension of an entry.",
		MinArgs: 1,
		Async:   true,
		Handler: Stat,
	})
}
