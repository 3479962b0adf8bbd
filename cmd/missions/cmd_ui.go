package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cdrpl/missions"
	"github.com/cdrpl/missions/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive view",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// live refresh is best effort; the view works without it
	var events <-chan missions.Event
	if sub, ok := e.api.Subscribe(ctx, e.deps.Sessions.Session()).Value(); ok {
		defer sub.Close()
		events = sub.Events()
	} else {
		e.deps.Log.Debug("no live updates")
	}

	if err := tui.Run(ctx, e.deps, events); err != nil {
		if errors.Is(err, tui.ErrSessionExpired) {
			return errNotLoggedIn
		}
		return err
	}

	return nil
}
