package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/vterm/core"
	"github.com/josephlewis42/vterm/core/config"
	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/vfs"
	"github.com/spf13/cobra"
)

var playgroundUser string

// playgroundCmd runs a terminal on the local console for testing
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run a terminal locally without starting a server.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		playgroundLogger := log.New(cmd.ErrOrStderr(), "[playground] ", 0)
		cfg, err := config.Initialize(dir, playgroundLogger)
		if err != nil {
			return err
		}

		// Help differentiate the playground from a real shell.
		cfg.Hostname = "playground"

		storage, err := core.NewStorageFromConfig(cfg)
		if err != nil {
			return err
		}

		logFd, err := cfg.OpenAppLog()
		if err != nil {
			return err
		}
		defer logFd.Close()
		logRecorder := logger.NewJsonLinesLogRecorder(logFd)

		playgroundLogger.Printf("Logging to: file://%s\n", dir)
		playgroundLogger.Printf("See logs with: tail -f %s\n", filepath.Join(dir, config.AppLogName))
		playgroundLogger.Println(strings.Repeat("=", 80))

		var console *core.Console
		sess := core.NewSession(cfg, storage, core.SessionConfig{
			Identity: vfs.Identity(playgroundUser),
			Recorder: logRecorder.NewSession(),
			OnClear: func() {
				console.Clear()
			},
		})

		console, err = core.NewConsole(sess, core.ConsoleConfig{
			Stdin:      os.Stdin,
			Stdout:     cmd.OutOrStdout(),
			Stderr:     cmd.ErrOrStderr(),
			Width:      readline.GetScreenWidth,
			IsTerminal: readline.DefaultIsTerminal,
			Hostname:   cfg.Hostname,
			Prompt:     cfg.Shell.Prompt,
		})
		if err != nil {
			return err
		}

		return console.Run(commandContext(cmd))
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
	playgroundCmd.Flags().StringVar(&playgroundUser, "user", "guest", "identity to run as")
}
