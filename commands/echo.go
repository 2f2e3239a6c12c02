package commands

import (
	"context"
	"strings"
)

// Echo prints its arguments separated by single spaces. It takes no
// flags so anything can be echoed.
func Echo(ctx context.Context, env *Env) Result {
	return Ok(strings.Join(env.Args, " "))
}

func init() {
	mustRegister(&Spec{
		Name:    "echo",
		Use:     "echo [ARG]...",
		Short:   "Print the arguments separated by spaces.",
		Handler: Echo,
	})
}
