package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/josephlewis42/vterm/core/recording"
	"github.com/spf13/cobra"
)

var recordingsCmd = &cobra.Command{
	Use:   "recordings",
	Short: "Work with recorded SSH sessions.",
}

var listRecordingsCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions, oldest first.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}

		infos, err := config.ListRecordings()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tRECORDED\tSIZE")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.TrimSuffix(info.Name(), "."+recording.AsciicastFileExt),
				info.ModTime().Format(time.RFC3339),
				humanize.Bytes(uint64(info.Size())))
		}
		return w.Flush()
	},
}

var playMaxSleep time.Duration

var playRecordingCmd = &cobra.Command{
	Use:   "play SESSION",
	Short: "Play a recorded session.",
	Long:  `Plays a recorded session back to the current terminal with its original timing.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := config.OpenRecording(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		sink := recording.NewOutputWriter(cmd.OutOrStdout())
		if playMaxSleep > 0 {
			sink = recording.NewRealTimePlayback(playMaxSleep, nil, sink)
		}
		return recording.Replay(recording.NewAsciicastSource(fd), sink)
	},
}

func init() {
	rootCmd.AddCommand(recordingsCmd)
	recordingsCmd.AddCommand(listRecordingsCmd)
	recordingsCmd.AddCommand(playRecordingCmd)

	playRecordingCmd.Flags().DurationVar(&playMaxSleep, "max-sleep", 2*time.Second, "longest pause between frames, 0 plays without pauses")
}
