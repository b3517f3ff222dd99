package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qrdrive-io/qrdrive/cli/reader"
)

// InspectModel is a Bubble Tea model for inspect views.
type InspectModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, inspectKeys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case "inspect_manifest":
		content = m.renderInspectManifest()
	case "inspect_frame":
		content = m.renderInspectFrame()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m InspectModel) renderInspectManifest() string {
	data, ok := m.data.(*reader.InspectManifestResponse)
	if !ok {
		return "Invalid data type for inspect_manifest"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Manifest"))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Name", data.Name},
		{"Frames", fmt.Sprintf("%d", data.Frames)},
		{"Capacity", fmt.Sprintf("%d bytes", data.Capacity)},
		{"Tier", fmt.Sprintf("%d", data.Tier)},
		{"Level", data.Level},
		{"Created At", data.CreatedAt},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render(row[0]+":"),
			ValueStyle.Render(row[1])))
	}

	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Binary:"),
		FlagStyle(data.Binary).Render(fmt.Sprintf("%v", data.Binary))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Archived:"),
		FlagStyle(data.Archived).Render(fmt.Sprintf("%v", data.Archived))))

	return BoxStyle.Render(b.String())
}

func (m InspectModel) renderInspectFrame() string {
	data, ok := m.data.(*reader.InspectFrameResponse)
	if !ok {
		return "Invalid data type for inspect_frame"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Frame Details"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Path:"),
		ValueStyle.Render(data.Path)))

	payloads := ValueStyle.Render(fmt.Sprintf("%d", data.Payloads))
	if data.Payloads != 1 {
		payloads = ErrorStyle.Render(fmt.Sprintf("%d (unusable)", data.Payloads))
	}
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Payloads:"), payloads))

	declared := WarningStyle.Render("(none)")
	if data.Declared != nil {
		declared = ValueStyle.Render(fmt.Sprintf("%d", *data.Declared))
	}
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Declared:"), declared))

	if data.Name != "" {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Name:"),
			ValueStyle.Render(data.Name)))
	}
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Binary:"),
		FlagStyle(data.Binary).Render(fmt.Sprintf("%v", data.Binary))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Archived:"),
		FlagStyle(data.Archived).Render(fmt.Sprintf("%v", data.Archived))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		LabelStyle.Render("Slice Bytes:"),
		ValueStyle.Render(fmt.Sprintf("%d", data.SliceBytes))))

	return BoxStyle.Render(b.String())
}

// inspectKeyMap defines key bindings for inspect views.
type inspectKeyMap struct {
	Quit key.Binding
}

var inspectKeys = inspectKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders inspect data without full TUI (for fallback).
func RenderInspectStatic(viewType string, data any) string {
	model := NewInspectModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
