package commands

import (
	"context"
	"fmt"
	"strings"
)

// Touch creates an empty file. Names without an extension get the
// configured default one.
func Touch(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		if len(args) != 1 {
			return env.usageFailure("expected exactly one file name")
		}

		name := withDefaultExtension(args[0], env.Options.DefaultExtension)
		if err := env.FS.WriteNewFile(ctx, env.Identity, env.WorkingPath, name, ""); err != nil {
			return Failf("touch: cannot create %q: %s", name, describeCause(err))
		}
		return Ok(fmt.Sprintf("Created file %s", name))
	})
}

// withDefaultExtension appends ext to names that have no extension.
func withDefaultExtension(name, ext string) string {
	if ext == "" || strings.Contains(name, ".") {
		return name
	}
	return name + "." + ext
}

func init() {
	mustRegister(&Spec{
		Name:    "touch",
		Use:     "touch FILE",
		Short:   "Create an empty file, adding the default extension if FILE has none.",
		MinArgs: 1,
		Async:   true,
		Handler: Touch,
	})
}
