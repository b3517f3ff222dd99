package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/qrdrive-io/qrdrive/assemble"
)

// ErrPromptAborted is returned when the operator quits the decision
// prompt instead of answering it.
var ErrPromptAborted = errors.New("decision prompt aborted")

// decideKeyMap defines key bindings for the decision prompt.
type decideKeyMap struct {
	Accept key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

var decideKeys = decideKeyMap{
	Accept: key.NewBinding(
		key.WithKeys("a", "enter"),
		key.WithHelp("a/enter", "accept"),
	),
	Rescan: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rescan"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "abort"),
	),
}

// DecideModel is a Bubble Tea model for the Accept/Rescan prompt shown
// when a scanned frame does not match the expected position.
type DecideModel struct {
	pending  assemble.Pending
	decision assemble.Decision
	answered bool
	aborted  bool
}

// NewDecideModel creates a decision prompt for a pending frame.
func NewDecideModel(pending assemble.Pending) DecideModel {
	return DecideModel{pending: pending}
}

// Init implements tea.Model.
func (m DecideModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DecideModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, decideKeys.Accept):
		m.decision = assemble.DecisionAccept
		m.answered = true
		return m, tea.Quit
	case key.Matches(keyMsg, decideKeys.Rescan):
		m.decision = assemble.DecisionReject
		m.answered = true
		return m, tea.Quit
	case key.Matches(keyMsg, decideKeys.Quit):
		m.aborted = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m DecideModel) View() string {
	if m.answered || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Frame Mismatch"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Expected:"),
		ValueStyle.Render(fmt.Sprintf("%d", m.pending.Position))))

	if m.pending.NoCount {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Scanned:"),
			WarningStyle.Render("no index marker")))
	} else if m.pending.Declared != nil {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Scanned:"),
			ErrorStyle.Render(fmt.Sprintf("%d", *m.pending.Declared))))
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(
		"a/enter accept as expected position • r rescan • q abort"))

	return PromptBoxStyle.Render(b.String())
}

// Decision returns the answered decision. Only meaningful after the
// program finishes without abort.
func (m DecideModel) Decision() (assemble.Decision, bool) {
	return m.decision, m.answered
}

// Aborted reports whether the operator quit instead of answering.
func (m DecideModel) Aborted() bool { return m.aborted }

// Prompt is an interactive decider: each ambiguous frame raises a
// Bubble Tea prompt and blocks the scan session on the answer.
type Prompt struct{}

// Decide runs the prompt for one pending frame.
func (Prompt) Decide(ctx context.Context, pending assemble.Pending) (assemble.Decision, error) {
	p := tea.NewProgram(NewDecideModel(pending), tea.WithContext(ctx))
	out, err := p.Run()
	if err != nil {
		return assemble.DecisionReject, err
	}

	final, ok := out.(DecideModel)
	if !ok || final.Aborted() {
		return assemble.DecisionReject, ErrPromptAborted
	}
	decision, answered := final.Decision()
	if !answered {
		return assemble.DecisionReject, ErrPromptAborted
	}
	return decision, nil
}
