package commands

import (
	"context"
	"time"
)

// Date prints the current time.
func Date(ctx context.Context, env *Env) Result {
	cmd := env.Command()
	utc := cmd.Flags().BoolLong("utc", 'u', "print Coordinated Universal Time")

	return cmd.Run(env, func() Result {
		now := env.now()
		if *utc {
			now = now.UTC()
		}
		return Ok(now.Format(time.UnixDate))
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "date",
		Use:     "date [-u]",
		Short:   "Print the current date and time.",
		Handler: Date,
	})
}
