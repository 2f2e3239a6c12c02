package commands

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/josephlewis42/vterm/core/vfs"
)

// Ls lists the working directory, directories first.
func Ls(ctx context.Context, env *Env) Result {
	cmd := env.Command()
	longListing := cmd.Flags().Bool('l', "use a long listing format")

	return cmd.Run(env, func() Result {
		entries, err := env.list(ctx)
		if err != nil {
			return env.storageFailure(err)
		}

		if len(entries) == 0 {
			return Ok("(empty directory)")
		}

		sortEntries(entries)

		if *longListing {
			return Ok(longFormat(entries)...)
		}

		var out []string
		for _, entry := range entries {
			out = append(out, displayName(entry))
		}
		return Ok(out...)
	})
}

func longFormat(entries []vfs.Entry) []string {
	var totalSize int64
	for _, e := range entries {
		totalSize += e.Size
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "total %d\n", totalSize)
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		kind := "-"
		if e.IsDir() {
			kind = "d"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			kind,
			e.Size,
			e.ModifiedAt.Format("Jan _2 15:04"),
			displayName(e))
	}
	tw.Flush()

	return splitLines(buf.String())
}

// sortEntries orders directories before files, then by name.
func sortEntries(entries []vfs.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name < entries[j].Name
	})
}

func displayName(entry vfs.Entry) string {
	if entry.IsDir() {
		return entry.Name + "/"
	}
	return entry.Name
}

func init() {
	mustRegister(&Spec{
		Name:    "ls",
		Aliases: []string{"dir"},
		Use:     "ls [-l]",
		Short:   "List the current directory, directories first.",
		Async:   true,
		Handler: Ls,
	})
}
