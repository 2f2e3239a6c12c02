package commands

import (
	"context"
	"fmt"
)

// Rm removes a file or directory from the working directory.
func Rm(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		name := cmd.Flags().Args()[0]

		entry, err := env.findEntry(ctx, name)
		if err != nil {
			return env.storageFailure(err)
		}

		if err := env.FS.DeleteEntry(ctx, env.Identity, entry.Path); err != nil {
			return env.storageFailure(err)
		}

		if entry.IsDir() {
			return Ok(fmt.Sprintf("Removed directory %s", name))
		}
		return Ok(fmt.Sprintf("Removed file %s", name))
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "rm",
		Use:     "rm NAME",
		Short:   "Remove a file, or a directory and everything in it.",
		MinArgs: 1,
		Async:   true,
		Handler: Rm,
	})
}
