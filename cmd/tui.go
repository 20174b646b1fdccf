package cmd

import (
	"fmt"
	"strings"

	"github.com/suderio/shieldwall/internal/engine"
	"github.com/suderio/shieldwall/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const welcome = "The raiders gather at the treeline.\nType 'start' to form the wall, 'help' for commands, 'exit' to quit."

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#8B2E16")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C8A165")).
			Padding(1, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))

	lockedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F2C14E"))
	fallenStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#666666"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0474C"))
)

var baseCommands = []string{"start", "roll", "lock ", "unlock ", "unlock all", "use ", "pass", "status", "actions", "help ", "exit", "quit"}

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type battleModel struct {
	app         *session.Session
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	battleName  string
	showList    bool
}

func newBattleModel(app *session.Session, battleName string) battleModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., lock 1 2, use strike)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false) // filtered in updateSuggestions
	sugList.SetShowHelp(false)

	return battleModel{
		app:         app,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		history:     []string{},
		historyIdx:  -1,
		logContent:  welcome,
		battleName:  battleName,
	}
}

func (m *battleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *battleModel) updateSuggestions() {
	val := m.textInput.Value()
	var items []list.Item

	defer func() {
		m.suggestions.SetItems(items)
		m.showList = len(items) > 0
		if m.showList {
			h := len(items)
			if h > 10 {
				h = 10
			}
			if h < 4 {
				h = 4
			}
			m.suggestions.SetHeight(h)
			m.suggestions.ResetSelected()
		}
	}()

	if val == "" {
		return
	}
	lower := strings.ToLower(val)

	// complete the last action of a "use" line from what the locked runes can buy
	if strings.HasPrefix(lower, "use ") {
		cut := strings.LastIndexAny(val, " ,+") + 1
		prefix := strings.ToLower(val[cut:])
		for _, a := range m.app.State().Available {
			if strings.HasPrefix(a.ID, prefix) && len(prefix) < len(a.ID) {
				items = append(items, suggestion(val[:cut]+a.ID))
			}
		}
		return
	}

	for _, c := range baseCommands {
		if strings.HasPrefix(c, lower) && len(val) < len(c) {
			items = append(items, suggestion(c))
		}
	}
}

func (m *battleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}

			if val != "" {
				if len(m.history) == 0 || m.history[len(m.history)-1] != val {
					m.history = append(m.history, val)
				}
				m.historyIdx = -1
				m.textInput.SetValue("")
				m.updateSuggestions()

				m.logContent += fmt.Sprintf("\n\n> %s\n", val)
				m.logContent += m.execute(val)

				m.viewport.SetContent(m.logContent)
				m.viewport.GotoBottom()
			}
		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	inputH := 1

	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2 // autocompleteStyle borders
	}

	infoH := lipgloss.Height(infoStyle.Render("Dummy"))
	paddingH := 7

	overhead := titleH + stateH + inputH + listAreaHeight + infoH + paddingH + 4

	m.viewport.Height = m.height - overhead
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

// execute runs one command and renders what it produced for the log.
func (m *battleModel) execute(input string) string {
	resp, err := m.app.Execute(input)
	var out strings.Builder
	if resp != nil {
		for _, evt := range resp.Events {
			if _, ok := evt.(*engine.ActionsChangedEvent); ok {
				continue // shown in the state box
			}
			if msg := evt.Message(); msg != "" {
				out.WriteString(msg + "\n")
			}
		}
		if resp.Text != "" {
			out.WriteString(resp.Text + "\n")
		}
	}
	if err != nil {
		out.WriteString(dangerStyle.Render(fmt.Sprintf("Error: %v", err)))
	}
	return out.String()
}

func (m *battleModel) renderState() string {
	snap := m.app.State()
	if !snap.Started {
		return stateBoxStyle.Width(m.width - 4).Render("=== The Wall ===\n\nNot yet formed.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Wave %d/%d | %s ===\n\n", snap.Wave, snap.WaveCount, snap.Phase)
	fmt.Fprintf(&b, "You: %d/%d HP   Stamina: %d/%d\n", snap.PlayerHealth, snap.PlayerMax, snap.Stamina, snap.StaminaMax)

	b.WriteString("Wall:")
	for _, br := range snap.Brothers {
		entry := fmt.Sprintf("%s[%s] %d/%d", br.Name, br.Position, br.Health, br.MaxHealth)
		if br.Dead() {
			entry = fallenStyle.Render(fmt.Sprintf("%s[%s]", br.Name, br.Position))
		}
		b.WriteString("  " + entry)
	}
	b.WriteString("\n")

	b.WriteString("Dice:")
	for i, d := range snap.Dice {
		face := fmt.Sprintf("%d:%s", i+1, d.Face)
		if d.Locked {
			face = lockedStyle.Render(face + "*")
		}
		b.WriteString("  " + face)
	}
	b.WriteString("\n\n")

	if len(snap.Attacks) == 0 {
		b.WriteString("No attacks telegraphed.\n")
	}
	for _, a := range snap.Attacks {
		line := fmt.Sprintf(" - %s -> %s for %d", a.Enemy, a.Target, a.Damage)
		if a.IgnoresBlocks {
			line = dangerStyle.Render(line + " (unblockable)")
		}
		b.WriteString(line + "\n")
	}

	if len(snap.Available) > 0 {
		ids := make([]string, len(snap.Available))
		for i, a := range snap.Available {
			ids[i] = a.ID
		}
		fmt.Fprintf(&b, "\nAvailable: %s", strings.Join(ids, ", "))
	}

	if snap.Ended {
		if snap.Victory {
			b.WriteString("\n\nVICTORY. The wall held.")
		} else {
			b.WriteString("\n\n" + dangerStyle.Render("DEFEAT. The wall is broken."))
		}
	}

	return stateBoxStyle.Width(m.width - 4).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *battleModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf(" Shield Wall | %s | seed %d ", m.battleName, m.app.Seed()))
	stateBox := m.renderState()
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	var inputArea string
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", m.textInput.View(), autocompleteStyle.Render(m.suggestions.View()))
	} else {
		inputArea = m.textInput.View()
	}

	mainView := lipgloss.JoinVertical(lipgloss.Left,
		title,
		stateBox,
		logBox,
		"\n",
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)

	return mainView + strings.Repeat("\n", 7)
}

func RunTUI(app *session.Session, battleName string) error {
	m := newBattleModel(app, battleName)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
