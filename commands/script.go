package commands

import (
	"context"
	"fmt"

	"github.com/josephlewis42/vterm/core/vpath"
)

const scriptTemplate = `# %s
# Put one command per line. Blank lines and lines starting with # are skipped.
# $1, $2, ... are the script's arguments and $@ is all of them.
# $PWD is the directory the script was started in and $USER is you.
`

// Script creates a new script from a template.
func Script(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		if len(args) != 1 {
			return env.usageFailure("expected exactly one script name")
		}

		ext := env.Options.ScriptExtension
		name := withDefaultExtension(args[0], ext)
		if vpath.Ext(name) != ext {
			env.LogInvalidInvocation(fmt.Errorf("bad script name %q", name))
			return Failf("script: %s: script names must end in .%s", name, ext)
		}

		content := fmt.Sprintf(scriptTemplate, name)
		if err := env.FS.WriteNewFile(ctx, env.Identity, env.WorkingPath, name, content); err != nil {
			return Failf("script: cannot create %q: %s", name, describeCause(err))
		}
		return Ok(
			fmt.Sprintf("Created script %s", name),
			fmt.Sprintf("Run it with: bash %s [ARG]...", name),
		)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "script",
		Use:     "script NAME",
		Short:   "Create a new script file from a template.",
		MinArgs: 1,
		Async:   true,
		Handler: Script,
	})
}
