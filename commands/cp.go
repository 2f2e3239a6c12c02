package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephlewis42/vterm/core/vfs"
	"github.com/josephlewis42/vterm/core/vpath"
)

// Cp copies an entry. If the destination is an existing directory the
// copy goes inside it, otherwise it's created under the destination name.
func Cp(ctx context.Context, env *Env) Result {
	return copyOrMove(ctx, env, false)
}

// Mv is Cp followed by removing the source.
func Mv(ctx context.Context, env *Env) Result {
	return copyOrMove(ctx, env, true)
}

func copyOrMove(ctx context.Context, env *Env, move bool) Result {
	cmd := env.Command()

	return cmd.Run(env, func() Result {
		args := cmd.Flags().Args()
		if len(args) != 2 {
			return env.usageFailure("expected a source and a destination")
		}
		srcName, dstName := args[0], args[1]

		entries, err := env.list(ctx)
		if err != nil {
			return env.storageFailure(err)
		}

		src, ok := entryNamed(entries, srcName)
		if !ok {
			return Failf("%s: %s: %s", env.Name, srcName, vfs.ErrNotFound)
		}

		parent, name := env.WorkingPath, dstName
		if dst, ok := entryNamed(entries, dstName); ok && dst.IsDir() {
			parent, name = dst.Path, src.Name
		}

		if src.IsDir() && (parent == src.Path || strings.HasPrefix(parent, src.Path+"/")) {
			return Failf("%s: cannot copy directory %s into itself", env.Name, srcName)
		}

		target := vpath.Join(parent, name)
		if err := copyEntry(ctx, env, src, parent, name); err != nil {
			return env.storageFailure(err)
		}

		if !move {
			return Ok(fmt.Sprintf("Copied %s to %s", srcName, target))
		}

		if err := env.FS.DeleteEntry(ctx, env.Identity, src.Path); err != nil {
			return env.storageFailure(err)
		}
		return Ok(fmt.Sprintf("Moved %s to %s", srcName, target))
	})
}

// copyEntry copies src to parent/name, descending into directories.
func copyEntry(ctx context.Context, env *Env, src vfs.Entry, parent, name string) error {
	if !src.IsDir() {
		text, err := env.FS.ReadText(ctx, env.Identity, src.Path)
		if err != nil {
			return err
		}
		return env.FS.WriteNewFile(ctx, env.Identity, parent, name, text)
	}

	if err := env.FS.CreateDirectory(ctx, env.Identity, parent, name); err != nil {
		return err
	}

	target := vpath.Join(parent, name)
	if err := copyChildren(ctx, env, src, target); err != nil {
		// A failed copy leaves nothing behind, even after ctx is cancelled.
		_ = env.FS.DeleteEntry(context.Background(), env.Identity, target)
		return err
	}
	return nil
}

func copyChildren(ctx context.Context, env *Env, src vfs.Entry, target string) error {
	children, err := env.FS.ListEntries(ctx, env.Identity, src.Path)
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := copyEntry(ctx, env, child, target, child.Name); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	mustRegister(&Spec{
		Name:    "cp",
		Use:     "cp SOURCE DEST",
		Short:   "Copy a file or directory, into DEST if it is a directory.",
		MinArgs: 2,
		Async:   true,
		Handler: Cp,
	})
	mustRegister(&Spec{
		Name:    "mv",
		Use:     "mv SOURCE DEST",
		Short:   "Move a file or directory, into DEST if it is a directory.",
		MinArgs: 2,
		Async:   true,
		Handler: Mv,
	})
}
