package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-progression/midi"
)

func newPortsCmd() *cobra.Command {
	var timeout time.Duration
	c := &cobra.Command{
		Use:   "ports",
		Short: "list MIDI output ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := midi.OutPortNames(timeout)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "no MIDI output ports")
				return nil
			}
			def := midi.FirstPort(names)
			for i, n := range names {
				mark := " "
				if i == def {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %d: %s\n", mark, i, n)
			}
			return nil
		},
	}
	c.Flags().DurationVar(&timeout, "timeout", midi.DefaultScanTimeout, "give up scanning after this long")
	return c
}
