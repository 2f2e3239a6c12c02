package commands

import (
	"context"
	"fmt"
	"strings"
)

// Help lists the builtin commands, or describes one of them.
func Help(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		registry := env.Registry
		if registry == nil {
			registry = Builtins()
		}

		if args := cmd.Flags().Args(); len(args) > 0 {
			spec, ok := registry.Lookup(args[0])
			if !ok {
				return Failf("help: no help for %q", args[0])
			}
			return Ok(describeSpec(spec)...)
		}

		out := []string{"Available commands:"}
		for _, spec := range registry.Specs() {
			out = append(out, fmt.Sprintf("  %-22s %s", spec.Use, spec.Short))
		}
		out = append(out,
			"",
			"Run 'help COMMAND' or 'COMMAND --help' for details.")
		return Ok(out...)
	})
}

func describeSpec(spec *Spec) []string {
	out := []string{"usage: " + spec.Use, spec.Short}
	if len(spec.Aliases) > 0 {
		out = append(out, "aliases: "+strings.Join(spec.Aliases, ", "))
	}
	return out
}

func init() {
	mustRegister(&Spec{
		Name:    "help",
		Use:     "help [COMMAND]",
		Short:   "List the available commands.",
		Handler: Help,
	})
}
