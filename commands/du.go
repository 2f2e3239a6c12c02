package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

// Du reports the sizes of the files in the working directory, largest
// first, followed by their total.
func Du(ctx context.Context, env *Env) Result {
	cmd := env.Command()
	exact := cmd.Flags().BoolLong("bytes", 'b', "print sizes in bytes")

	return cmd.Run(env, func() Result {
		entries, err := env.list(ctx)
		if err != nil {
			return env.storageFailure(err)
		}

		size := humanize.Bytes
		if *exact {
			size = func(n uint64) string { return fmt.Sprintf("%d B", n) }
		}

		files := entries[:0]
		var total uint64
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, entry)
			total += uint64(entry.Size)
		}

		sort.SliceStable(files, func(i, j int) bool {
			if files[i].Size == files[j].Size {
				return files[i].Name < files[j].Name
			}
			return files[i].Size > files[j].Size
		})

		var out []string
		for _, f := range files {
			out = append(out, fmt.Sprintf("%-10s %s", size(uint64(f.Size)), f.Name))
		}
		out = append(out, fmt.Sprintf("%-10s total (%d files)", size(total), len(files)))
		return Ok(out...)
	})
}

func init() {
	mustRegister(&Spec{
		Name:    "du",
		Use:     "du [-b]",
		Short:   "Show file sizes in the current directory, largest first.",
		Async:   true,
		Handler: Du,
	})
}
