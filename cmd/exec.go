package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephlewis42/vterm/core"
	"github.com/josephlewis42/vterm/core/config"
	"github.com/josephlewis42/vterm/core/history"
	"github.com/josephlewis42/vterm/core/session"
	"github.com/josephlewis42/vterm/core/vfs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	execRoot   string
	execScript string
	execUser   string
)

// execCmd runs commands without a console
var execCmd = &cobra.Command{
	Use:   "exec [LINE]...",
	Short: "Run terminal commands against a local directory.",
	Long: `Runs each LINE as if it had been typed into a terminal, printing the output.

With --script, the host file is run as a script first and the remaining
arguments are passed to it instead of being run as lines.

The command fails if any line fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		base := afero.NewMemMapFs()
		if execRoot != "" {
			base = afero.NewBasePathFs(afero.NewOsFs(), execRoot)
		}

		var cfg config.Configuration
		sess := core.NewSession(&cfg, vfs.NewAferoFS(base), core.SessionConfig{
			Identity: vfs.Identity(execUser),
		})

		ctx := commandContext(cmd)

		ran, failed := 0, 0
		report := func(entry history.Entry) {
			core.RenderEntry(cmd.OutOrStdout(), entry, false)
			ran++
			if !entry.Succeeded {
				failed++
			}
		}

		if execScript != "" {
			text, err := os.ReadFile(execScript)
			if err != nil {
				return err
			}

			entry, err := sess.RunScript(ctx, filepath.Base(execScript), string(text), args)
			if err != nil {
				return err
			}
			report(entry)
			args = nil
		}

		for _, line := range args {
			entry, err := sess.Submit(ctx, line)
			switch {
			case errors.Is(err, session.ErrEmptyInput):
				continue
			case err != nil:
				return err
			}
			report(entry)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d commands failed", failed, ran)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVar(&execRoot, "root", "", "directory to use as the filesystem root, in memory if unset")
	execCmd.Flags().StringVar(&execScript, "script", "", "host script to run with the arguments")
	execCmd.Flags().StringVar(&execUser, "user", "guest", "identity to run as")
}
