package commands

import (
	"context"
	"fmt"

	"github.com/josephlewis42/vterm/core/vfs"
)

const (
	treeBranch = "├── "
	treeLast   = "└── "
	treePipe   = "│   "
	treeBlank  = "    "
)

type treeWalker struct {
	ctx   context.Context
	env   *Env
	out   []string
	dirs  int
	files int
}

// Tree prints the subtree under the working directory. Directories that
// can't be listed are marked and skipped.
func Tree(ctx context.Context, env *Env) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		entries, err := env.list(ctx)
		if err != nil {
			return env.storageFailure(err)
		}

		w := &treeWalker{ctx: ctx, env: env, out: []string{env.WorkingPath}}
		w.walk(entries, "")

		w.out = append(w.out, "", fmt.Sprintf("%d %s, %d %s",
			w.dirs, plural(w.dirs, "directory", "directories"),
			w.files, plural(w.files, "file", "files")))
		return Ok(w.out...)
	})
}

func (w *treeWalker) walk(entries []vfs.Entry, prefix string) {
	sortEntries(entries)

	for i, entry := range entries {
		connector, indent := treeBranch, treePipe
		if i == len(entries)-1 {
			connector, indent = treeLast, treeBlank
		}

		if !entry.IsDir() {
			w.files++
			w.out = append(w.out, prefix+connector+entry.Name)
			continue
		}

		w.dirs++
		children, err := w.env.FS.ListEntries(w.ctx, w.env.Identity, entry.Path)
		if err != nil {
			w.out = append(w.out, prefix+connector+displayName(entry)+" [unreadable]")
			continue
		}

		w.out = append(w.out, prefix+connector+displayName(entry))
		w.walk(children, prefix+indent)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	mustRegister(&Spec{
		Name:    "tree",
		Use:     "tree",
		Short:   "Show the directory tree below the current directory.",
		Async:   true,
		Handler: Tree,
	})
}
