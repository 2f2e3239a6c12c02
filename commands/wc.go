package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

type wcCount struct {
	lines int
	words int
	chars int
}

func countText(text string) wcCount {
	return wcCount{
		lines: strings.Count(text, "\n"),
		words: len(strings.Fields(text)),
		chars: utf8.RuneCountInString(text),
	}
}

// Wc prints the line, word and character counts of a file.
func Wc(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		name := cmd.Flags().Args()[0]

		entry, err := env.findFile(ctx, name)
		if err != nil {
			return env.storageFailure(err)
		}

		text, err := env.FS.ReadText(ctx, env.Identity, entry.Path)
		if err != nil {
			return env.storageFailure(err)
		}

		count := countText(text)
		// Text without a trailing newline still has a last line.
		if text != "" && !strings.HasSuffix(text, "\n") {
			count.lines++
		}
		return Ok(fmt.Sprintf("%d %d %d %s", count.lines, count.words, count.chars, name))
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "wc",
		Use:     "wc FILE",
		Short:   "Print the line, word and character counts of a file.",
		MinArgs: 1,
		Async:   true,
		Handler: Wc,
	})
}
