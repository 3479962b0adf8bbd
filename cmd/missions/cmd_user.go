package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdrpl/missions/internal/app"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	RunE:  runMe,
}

var renameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Change the user name",
	Args:  cobra.ExactArgs(1),
	RunE:  runRename,
}

var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Delete the account with all of its missions",
	Args:  cobra.NoArgs,
	RunE:  runDeleteAccount,
}

func init() {
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteAccountCmd)
}

func runMe(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	self := app.NewSelf(e.deps)
	self.Load(cmd.Context())

	if self.State() != app.StateReady {
		return errNotLoggedIn
	}

	info := self.Info()
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", info.UserName, info.UserID)
	return nil
}

var errEmptyName = errors.New("the new name must not be empty")

func runRename(cmd *cobra.Command, args []string) error {
	if args[0] == "" {
		return errEmptyName
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	self := app.NewSelf(e.deps)
	self.Rename(cmd.Context(), args[0])

	if err := e.terminal.outcome(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "renamed to %s\n", self.Info().UserName)
	return nil
}

func runDeleteAccount(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	app.NewSelf(e.deps).DeleteAccount(cmd.Context())

	if e.terminal.outcome() != nil {
		return errors.New("account was not deleted")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "account deleted")
	return nil
}
