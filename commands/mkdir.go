package commands

import (
	"context"
	"fmt"
)

// Mkdir creates a directory in the working directory.
func Mkdir(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		if len(args) != 1 {
			return env.usageFailure("expected exactly one directory name")
		}

		name := args[0]
		if err := env.FS.CreateDirectory(ctx, env.Identity, env.WorkingPath, name); err != nil {
			return Failf("mkdir: cannot create directory %q: %s", name, describeCause(err))
		}
		return Ok(fmt.Sprintf("Created directory %s", name))
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "mkdir",
		Use:     "mkdir DIRECTORY",
		Short:   "Create a directory.",
		MinArgs: 1,
		Async:   true,
		Handler: Mkdir,
	})
}
