package commands

import (
	"context"
	"fmt"
)

// Rename gives an entry of the working directory a new name in place.
func Rename(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		if len(args) != 2 {
			return env.usageFailure("expected an old and a new name")
		}

		entry, err := env.findEntry(ctx, args[0])
		if err != nil {
			return env.storageFailure(err)
		}

		if err := env.FS.RenameEntry(ctx, env.Identity, entry.Path, args[1]); err != nil {
			return env.storageFailure(err)
		}
		return Ok(fmt.Sprintf("Renamed %s to %s", args[0], args[1]))
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "rename",
		Use:     "rename OLD NEW",
		Short:   "Rename an entry in the current directory.",
		MinArgs: 2,
		Async:   true,
		Handler: Rename,
	})
}
