package commands

import (
	"context"
)

// Whoami prints the caller identity.
func Whoami(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		return Ok(env.Identity.String())
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "whoami",
		Use:     "whoami",
		Short:   "Print the current user.",
		Handler: Whoami,
	})
}
