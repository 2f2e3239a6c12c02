package commands

import (
	"context"
)

// Cat prints the text of a file in the working directory.
func Cat(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		entry, err := env.findFile(ctx, cmd.Flags().Args()[0])
		if err != nil {
			return env.storageFailure(err)
		}

		lines, err := env.readLines(ctx, entry.Path)
		if err != nil {
			return env.storageFailure(err)
		}
		if len(lines) == 0 {
			return Ok("")
		}
		return Ok(lines...)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "cat",
		Use:     "cat FILE",
		Short:   "Print the contents of a text file.",
		MinArgs: 1,
		Async:   true,
		Handler: Cat,
	})
}
