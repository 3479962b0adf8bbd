package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cdrpl/missions"
	"github.com/cdrpl/missions/internal/app"
)

var missionDescription string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's missions, open ones first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <mission> <title>",
	Short: "Change a mission's title and description",
	Long:  "The mission is either its number in `missions list` or its ID.",
	Args:  cobra.ExactArgs(2),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <mission>",
	Short: "Delete a mission",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var completeCmd = &cobra.Command{
	Use:   "complete <mission>",
	Short: "Mark a mission complete and earn experience",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level and experience",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	addCmd.Flags().StringVarP(&missionDescription, "description", "d", "", "Mission description")
	editCmd.Flags().StringVarP(&missionDescription, "description", "d", "", "Mission description (empty clears it)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(statusCmd)
}

// loadHome loads the home page and fails when the server rejected the session.
func loadHome(cmd *cobra.Command) (*env, *app.Home, error) {
	e, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}

	home := app.NewHome(e.deps)
	home.Load(cmd.Context())

	if home.State() != app.StateReady {
		return nil, nil, errNotLoggedIn
	}

	return e, home, nil
}

// findMission resolves a 1-based position in the listed order or a mission ID.
func findMission(home *app.Home, ref string) (missions.DailyMission, error) {
	ms := app.PartitionMissions(home.Missions())

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(ms) {
		return ms[n-1], nil
	}

	for _, m := range ms {
		if m.MissionID == ref {
			return m, nil
		}
	}

	return missions.DailyMission{}, fmt.Errorf("no mission %q", ref)
}

func printMissions(cmd *cobra.Command, ms []missions.DailyMission) {
	out := cmd.OutOrStdout()

	if len(ms) == 0 {
		fmt.Fprintln(out, "no missions yet")
		return
	}

	for i, m := range app.PartitionMissions(ms) {
		check := " "
		if m.IsComplete {
			check = "x"
		}

		fmt.Fprintf(out, "%d. [%s] %s  (%s)\n", i+1, check, m.Title, m.MissionID)
		if m.Description != nil {
			fmt.Fprintf(out, "      %s\n", *m.Description)
		}
	}
}

func runList(cmd *cobra.Command, args []string) error {
	_, home, err := loadHome(cmd)
	if err != nil {
		return err
	}

	printMissions(cmd, home.Missions())
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, home, err := loadHome(cmd)
	if err != nil {
		return err
	}

	home.SetForm(app.MissionForm{Title: args[0], Description: missionDescription})
	if err := home.AddMission(cmd.Context()); err != nil {
		return err
	}

	if err := e.terminal.outcome(); err != nil {
		return err
	}

	printMissions(cmd, home.Missions())
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	e, home, err := loadHome(cmd)
	if err != nil {
		return err
	}

	m, err := findMission(home, args[0])
	if err != nil {
		return err
	}

	form := app.EditFormFor(m)
	form.Title = args[1]
	if cmd.Flags().Changed("description") {
		form.Description = missionDescription
	}

	if err := home.EditMission(cmd.Context(), form); err != nil {
		return err
	}

	return e.terminal.outcome()
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, home, err := loadHome(cmd)
	if err != nil {
		return err
	}

	m, err := findMission(home, args[0])
	if err != nil {
		return err
	}

	if err := home.DeleteMission(cmd.Context(), m.MissionID); err != nil {
		return err
	}

	return e.terminal.outcome()
}

func runComplete(cmd *cobra.Command, args []string) error {
	e, home, err := loadHome(cmd)
	if err != nil {
		return err
	}

	m, err := findMission(home, args[0])
	if err != nil {
		return err
	}

	if err := home.CompleteMission(cmd.Context(), m.MissionID); err != nil {
		return err
	}

	if err := e.terminal.outcome(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), app.RenderStatus(home.Level()))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, home, err := loadHome(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), app.RenderStatus(home.Level()))
	return nil
}
