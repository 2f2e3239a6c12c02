package commands

import (
	"context"
)

// Clear asks the session to empty its history.
func Clear(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		return Result{Succeeded: true, ClearHistory: true}
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "clear",
		Aliases: []string{"cls"},
		Use:     "clear",
		Short:   "Clear the terminal and its history.",
		Handler: Clear,
	})
}
