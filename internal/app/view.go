package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cdrpl/missions"
)

// PartitionMissions returns the incomplete missions followed by the complete
// ones, each group in its server order.
func PartitionMissions(ms []missions.DailyMission) []missions.DailyMission {
	out := make([]missions.DailyMission, 0, len(ms))

	for _, m := range ms {
		if !m.IsComplete {
			out = append(out, m)
		}
	}

	for _, m := range ms {
		if m.IsComplete {
			out = append(out, m)
		}
	}

	return out
}

// Tab of the home page.
type Tab int

const (
	TabMissions Tab = iota
	TabAdd
	TabStatus
	tabCount
)

var tabLabels = [tabCount]string{"Missions", "Add", "Status"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return ""
	}

	return tabLabels[t]
}

// Tabs selects one tab at a time. Moving past either end wraps around.
type Tabs struct {
	active Tab
}

func (t Tabs) Active() Tab {
	return t.active
}

func (t *Tabs) Select(tab Tab) {
	if tab >= 0 && tab < tabCount {
		t.active = tab
	}
}

func (t *Tabs) Next() {
	t.active = (t.active + 1) % tabCount
}

func (t *Tabs) Prev() {
	t.active = (t.active + tabCount - 1) % tabCount
}

// EditForm is the edit dialog of one mission.
type EditForm struct {
	MissionID   string
	Title       string
	Description string
}

// EditFormFor fills the edit dialog with the mission's current values.
func EditFormFor(m missions.DailyMission) EditForm {
	form := EditForm{MissionID: m.MissionID, Title: m.Title}
	if m.Description != nil {
		form.Description = *m.Description
	}

	return form
}

func (f EditForm) Input() missions.DailyMissionInput {
	return MissionForm{Title: f.Title, Description: f.Description}.Input()
}

var (
	primary = lipgloss.Color("#101F38")
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#6B7280")
	warning = lipgloss.Color("#FFC107")

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(primary).Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(muted).Padding(0, 2)
	titleStyle       = lipgloss.NewStyle().Bold(true)
	descStyle        = lipgloss.NewStyle().Foreground(muted).PaddingLeft(4)
	doneStyle        = lipgloss.NewStyle().Foreground(accent)
	cursorStyle      = lipgloss.NewStyle().Foreground(warning).Bold(true)
	levelStyle       = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle       = lipgloss.NewStyle().Width(12)
)

func RenderTabs(t Tabs) string {
	cells := make([]string, 0, tabCount)

	for tab := Tab(0); tab < tabCount; tab++ {
		if tab == t.active {
			cells = append(cells, activeTabStyle.Render(tab.String()))
		} else {
			cells = append(cells, inactiveTabStyle.Render(tab.String()))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderMissions draws the list in display order. cursor indexes that
// order; pass -1 for no cursor.
func RenderMissions(ms []missions.DailyMission, cursor int) string {
	if len(ms) == 0 {
		return descStyle.Render("no missions yet")
	}

	var b strings.Builder

	for i, m := range ms {
		pointer := "  "
		if i == cursor {
			pointer = cursorStyle.Render("> ")
		}

		check := "[ ]"
		title := titleStyle.Render(m.Title)
		if m.IsComplete {
			check = doneStyle.Render("[x]")
			title = doneStyle.Render(m.Title)
		}

		fmt.Fprintf(&b, "%s%s %s\n", pointer, check, title)

		if m.Description != nil {
			b.WriteString(descStyle.Render(*m.Description))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderStatus draws the level panel. The next-level row reads "max" at the cap.
func RenderStatus(level *missions.Level) string {
	if level == nil {
		return descStyle.Render("loading...")
	}

	next := "max"
	if level.Remaining != nil {
		next = fmt.Sprint(*level.Remaining)
	}

	rows := []string{
		levelStyle.Render(fmt.Sprintf("Lv. %d", level.Level)),
		labelStyle.Render("Current Exp.") + fmt.Sprint(level.ExperiencePoints),
		labelStyle.Render("Next Exp.") + next,
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
