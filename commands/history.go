package commands

import (
	"context"
	"fmt"
)

// History prints the session's earlier submissions.
func History(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		entries := env.history()
		if len(entries) == 0 {
			return Ok("(no history)")
		}

		out := make([]string, 0, len(entries))
		for i, entry := range entries {
			status := "ok"
			if !entry.Succeeded {
				status = "fail"
			}
			out = append(out, fmt.Sprintf("%d [%s] %s %s",
				i+1,
				entry.ExecutedAt.Format("15:04:05"),
				status,
				entry.CommandText))
		}
		return Ok(out...)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "history",
		Use:     "history",
		Short:   "Show the commands run in this session.",
		Handler: History,
	})
}
