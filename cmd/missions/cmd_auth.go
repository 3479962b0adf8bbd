package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cdrpl/missions/internal/app"
)

var (
	authEmail    string
	authPassword string
	authUserName string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session",
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, signupCmd} {
		cmd.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
		cmd.Flags().StringVar(&authPassword, "password", "", "Account password (required)")
		cmd.MarkFlagRequired("email")
		cmd.MarkFlagRequired("password")
	}

	signupCmd.Flags().StringVar(&authUserName, "name", "", "User name (required)")
	signupCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	login := app.NewLogin(e.deps)
	if !login.Submit(cmd.Context(), authEmail, authPassword) {
		return errors.New(login.Err())
	}

	fmt.Fprintln(cmd.OutOrStdout(), "logged in")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	signup := app.NewSignup(e.deps)
	signup.Submit(cmd.Context(), authUserName, authEmail, authPassword)

	if msg := signup.Err(); msg != "" {
		return fmt.Errorf("signup failed: %s", msg)
	}

	if e.terminal.lastRoute() == app.RouteLogin {
		return errors.New("account created but login failed, run `missions login`")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "account created, logged in")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := e.deps.Sessions.Clear(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "logged out")
	return nil
}
