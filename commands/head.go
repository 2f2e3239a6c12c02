package commands

import (
	"context"
	"strconv"
)

const defaultLineCount = 10

// Head prints the first lines of a file.
func Head(ctx context.Context, env *Env) Result {
	return headTail(ctx, env, func(lines []string, n int) []string {
		if n < len(lines) {
			return lines[:n]
		}
		return lines
	})
}

// Tail prints the last lines of a file.
func Tail(ctx context.Context, env *Env) Result {
	return headTail(ctx, env, func(lines []string, n int) []string {
		if n < len(lines) {
			return lines[len(lines)-n:]
		}
		return lines
	})
}

func headTail(ctx context.Context, env *Env, pick func(lines []string, n int) []string) Result {
	cmd := env.Command()
	count := cmd.Flags().StringLong("lines", 'n', "", "print N lines instead of 10", "N")

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()

		rawCount := *count
		switch {
		case len(args) > 2:
			return env.usageFailure("too many arguments")
		case len(args) == 2 && rawCount != "":
			return env.usageFailure("line count given twice")
		case len(args) == 2:
			rawCount = args[1]
		}

		n := defaultLineCount
		if rawCount != "" {
			parsed, err := strconv.Atoi(rawCount)
			if err != nil || parsed < 1 {
				return env.usageFailure("line count must be a positive integer: " + rawCount)
			}
			n = parsed
		}

		entry, err := env.findFile(ctx, args[0])
		if err != nil {
			return env.storageFailure(err)
		}

		lines, err := env.readLines(ctx, entry.Path)
		if err != nil {
			return env.storageFailure(err)
		}

		out := pick(lines, n)
		if len(out) == 0 {
			return Ok("")
		}
		return Ok(append([]string(nil), out...)...)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "head",
		Use:     "head [-n N] FILE [N]",
		Short:   "Print the first N lines of a file, 10 by default.",
		MinArgs: 1,
		Async:   true,
		Handler: Head,
	})
	mustRegister(&Spec{
		Name:    "tail",
		Use:     "tail [-n N] FILE [N]",
		Short:   "Print the last N lines of a file, 10 by default.",
		MinArgs: 1,
		Async:   true,
		Handler: Tail,
	})
}
