// Package main starts the padlink sender or receiver.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// main is the entrypoint for padlink.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		logFatal(err)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           "padlink",
		Short:         "Relay touchpad pointer input to a remote receiver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose debug logging")

	var useTUI bool
	send := &cobra.Command{
		Use:   "send",
		Short: "Serve the touchpad and relay input to the receiver",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runSend(debug, useTUI)
		},
	}
	send.Flags().BoolVar(&useTUI, "tui", false, "Also run a terminal touchpad")

	recv := &cobra.Command{
		Use:   "recv",
		Short: "Accept a sender and inject its pointer input on this host",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runRecv(debug)
		},
	}

	root.AddCommand(send, recv)
	return root
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}
