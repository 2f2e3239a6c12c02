package commands

import (
	"context"
)

// Pwd prints the working path.
func Pwd(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		return Ok(env.WorkingPath)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "pwd",
		Use:     "pwd",
		Short:   "Print the name of the working directory.",
		Handler: Pwd,
	})
}
