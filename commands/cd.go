package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephlewis42/vterm/core/vpath"
)

// Cd changes the working path. The target must list as a directory
// before the move is committed.
func Cd(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			return changedTo(vpath.Root)
		}

		target, err := vpath.Resolve(env.WorkingPath, args[0])
		switch {
		case errors.Is(err, vpath.ErrAlreadyAtRoot):
			return Ok("cd: already at root")
		case err != nil:
			env.LogInvalidInvocation(err)
			return Failf("cd: %s: %s", args[0], err)
		}

		if _, err := env.FS.ListEntries(ctx, env.Identity, target); err != nil {
			return env.storageFailure(err)
		}

		return changedTo(target)
	})
}

func changedTo(target string) Result {
	return Result{
		Output:    []string{fmt.Sprintf("Changed directory to %s", target)},
		Succeeded: true,
		Chdir:     target,
	}
}

func init() {
	mustRegister(&Spec{
		Name:    "cd",
		Use:     "cd [DIRECTORY|..|/]",
		Short:   "Change the working directory, or go to the root with no argument.",
		Async:   true,
		Handler: Cd,
	})
}
