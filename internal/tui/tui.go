// Package tui is the terminal front end for the adcraft API.
package tui

import (
	"fmt"
	"strings"

	"codeberg.org/adcraft/server/internal/prompt"
	"codeberg.org/adcraft/server/internal/usage"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const intro = `Drop the path of an **image or video** below and press **enter**.
You get five ad copy variants, one per persuasion tone.`

// NewApp builds the model; exportDir is where "e" saves the CSV.
func NewApp(client *Client, exportDir string) *Model {
	path := textinput.New()
	path.Placeholder = "path/to/creative.png"
	path.Prompt = "> "
	path.CharLimit = 0
	path.Width = 72
	path.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	path.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)
	path.Focus()

	instructions := textinput.New()
	instructions.Placeholder = "optional instructions, e.g. mention free shipping"
	instructions.Prompt = "> "
	instructions.CharLimit = prompt.MaxCustomInstructionsLength
	instructions.Width = 72
	instructions.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	instructions.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return &Model{
		client:            client,
		exportDir:         exportDir,
		pathInput:         path,
		instructionsInput: instructions,
		spinner:           s,
		focus:             focusPath,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, loadUsage(m.client))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pathInput.Width = max(msg.Width-10, 20)
		m.instructionsInput.Width = max(msg.Width-10, 20)

		return m, nil

	case spinner.TickMsg:
		if !m.isFetching {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case usageMsg:
		m.usage = msg.resp
		m.err = nil

		return m, nil

	case generatedMsg:
		m.isFetching = false
		m.err = nil

		if msg.media != nil {
			m.media = msg.media
			m.selectedPath = msg.path
		}

		m.result = msg.resp.Result
		m.status = fmt.Sprintf("%d variants generated", len(m.result.Variants))

		if m.usage != nil {
			m.usage.Usage = msg.resp.Usage
			m.usage.Message = msg.resp.Usage.Summary()
		}

		return m, nil

	case mediaSelectedMsg:
		m.isFetching = false
		m.media = msg.media
		m.selectedPath = msg.path
		m.result = nil
		m.err = msg.err

		return m, nil

	case exportedMsg:
		m.isFetching = false
		m.err = nil
		m.status = "saved " + msg.path

		return m, nil

	case clearedMsg:
		m.status = "cleared"
		return m, nil

	case errMsg:
		m.isFetching = false
		m.err = msg.err

		return m, nil
	}

	return m.updateInputs(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+l":
		return m, m.clear()

	case "esc":
		if m.focus == focusCommands {
			return m, m.setFocus(focusPath)
		}

		return m, m.setFocus(focusCommands)

	case "tab":
		if m.focus == focusPath {
			return m, m.setFocus(focusInstructions)
		}

		return m, m.setFocus(focusPath)

	case "enter":
		return m, m.submit()
	}

	if m.focus == focusCommands {
		switch msg.String() {
		case "p":
			return m, m.cyclePlan()
		case "e":
			return m, m.export()
		case "q":
			return m, tea.Quit
		}

		return m, nil
	}

	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case focusPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case focusInstructions:
		m.instructionsInput, cmd = m.instructionsInput.Update(msg)
	}

	return m, cmd
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.pathInput.Blur()
	m.instructionsInput.Blur()

	switch f {
	case focusPath:
		return m.pathInput.Focus()
	case focusInstructions:
		return m.instructionsInput.Focus()
	}

	return nil
}

// starts a generation unless one is already running
func (m *Model) submit() tea.Cmd {
	if m.isFetching {
		return nil
	}

	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" && m.media == nil {
		m.status = "enter the path of an image or video first"
		return nil
	}

	upload := path != "" && path != m.selectedPath
	if !upload && m.media == nil {
		m.status = "enter the path of an image or video first"
		return nil
	}

	m.isFetching = true
	m.err = nil
	m.status = ""

	return tea.Batch(
		m.spinner.Tick,
		runGeneration(m.client, path, upload, m.instructionsInput.Value()),
	)
}

func (m *Model) cyclePlan() tea.Cmd {
	if m.isFetching || m.usage == nil {
		return nil
	}

	return changePlan(m.client, nextPlan(m.usage.Usage.Plan))
}

func (m *Model) export() tea.Cmd {
	if m.isFetching {
		return nil
	}

	if m.result == nil {
		m.status = "nothing to export yet"
		return nil
	}

	m.isFetching = true

	return tea.Batch(m.spinner.Tick, exportCSV(m.client, m.exportDir))
}

func (m *Model) clear() tea.Cmd {
	if m.isFetching {
		return nil
	}

	m.pathInput.SetValue("")
	m.instructionsInput.SetValue("")
	m.selectedPath = ""
	m.media = nil
	m.result = nil
	m.err = nil
	m.status = ""

	return tea.Batch(m.setFocus(focusPath), clearMedia(m.client))
}

func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(m.usageView())
	b.WriteString("\n\n")

	b.WriteString(m.inputView("creative", m.pathInput, m.focus == focusPath, width))
	b.WriteString("\n")
	b.WriteString(m.inputView(m.instructionsLabel(), m.instructionsInput, m.focus == focusInstructions, width))
	b.WriteString("\n")

	if m.media != nil && m.media.Workspace.HasMedia {
		b.WriteString(infoStyle.Render(fmt.Sprintf("selected %s (%s, %d bytes)",
			m.media.Workspace.Filename, m.media.Workspace.MIMEType, m.media.Workspace.Size)))
		b.WriteString("\n")
	}

	switch {
	case m.isFetching:
		b.WriteString(m.spinner.View() + " " + infoStyle.Render("generating ad copy..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render(describeError(m.err)))
	case m.status != "":
		b.WriteString(infoStyle.Render(m.status))
	}

	b.WriteString("\n\n")

	if m.result != nil && len(m.result.Variants) > 0 {
		for _, v := range m.result.Variants {
			b.WriteString(renderCard(v, width-2))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(RenderMarkdown(intro, width-4))
	}

	b.WriteString(helpStyle.Render(m.helpLine()))

	return b.String()
}

func (m *Model) usageView() string {
	if m.usage == nil {
		return subtitleStyle.Render("connecting...")
	}

	plan := string(m.usage.Usage.Plan)
	if info, ok := usage.LookupPlan(m.usage.Usage.Plan); ok {
		plan = info.Name
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		subtitleStyle.Render(plan+" plan · "),
		usageStyle.Render(m.usage.Message),
	)
}

func (m *Model) inputView(label string, input textinput.Model, focused bool, width int) string {
	style := inputBoxStyle
	if focused {
		style = focusedInputBoxStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		labelStyle.Render(label),
		style.Width(max(width-18, 20)).Render(input.View()),
	)
}

func (m *Model) instructionsLabel() string {
	if m.usage != nil && !m.usage.Usage.Features.CustomInstructions {
		return "instructions*"
	}

	return "instructions"
}

func (m *Model) helpLine() string {
	if m.focus == focusCommands {
		return "[p: change plan] [e: export csv] [ctrl+l: clear] [esc: back to input] [q: quit]"
	}

	help := "[enter: generate] [tab: switch field] [esc: commands] [ctrl+l: clear] [ctrl+c: quit]"
	if m.usage != nil && !m.usage.Usage.Features.CustomInstructions {
		help += "\n* instructions need the Pro plan"
	}

	return help
}
