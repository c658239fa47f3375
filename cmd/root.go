package cmd

import (
	"context"

	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "go-progression",
		Short: "endless procedural chords and melody over MIDI",
		Long: `go-progression plays a never-ending chord progression with a melody on top.
Chords and melody go to two MIDI channels of an output port, bar by bar,
decided by a seeded random walk over a small set of triads.`,
		SilenceUsage: true,
	}
	root.AddCommand(newPlayCmd(), newPortsCmd(), newProbeCmd(), newConfigCmd())
	return root
}

func Execute() {
	cobra.CheckErr(NewRootCmd().ExecuteContext(context.Background()))
}
