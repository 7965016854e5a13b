package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hooch88/justicar/internal/engine"
	"github.com/hooch88/justicar/pkg/character"
)

const (
	GMName          = "GM"
	PlaceHolderText = "What do you do?"
)

// storyLine is one entry in the scrollback: either the player's action or
// the game master's narration.
type storyLine struct {
	fromPlayer bool
	text       string
	rollLine   string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	start         *engine.StartOutput
	hero          *character.Character
	status        *engine.CampaignStatus
	storyViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	lines         []storyLine
	ready         bool
	width         int
	height        int
	err           error
	loading       bool
	storyOver     bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type turnResultMsg struct {
	result *engine.TurnResult
	err    error
}

type statusMsg struct {
	status *engine.CampaignStatus
	err    error
}

type situationMsg struct {
	text string
	err  error
}

type progressTickMsg struct{}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	gmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	rollStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")) // pale yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, start *engine.StartOutput, hero *character.Character) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	lines := []storyLine{{text: start.Opening}}

	return ConsoleUI{
		config:        cfg,
		client:        client,
		start:         start,
		hero:          hero,
		textarea:      ta,
		storyViewport: storyVp,
		metaViewport:  metaVp,
		lines:         lines,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.refreshStatus())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		storyWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - storyWidth - 6

		m.storyViewport.Width = storyWidth - 2
		m.storyViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(storyWidth - 4)

		m.ready = true
		m.writeStoryContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading || m.storyOver {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.err = nil

			m.lines = append(m.lines, storyLine{fromPlayer: true, text: input})
			m.writeStoryContent()

			return m, tea.Batch(m.submitTurn(input), progressTick())
		}

	case turnResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			line := storyLine{text: msg.result.DMResponse}
			if msg.result.RuleResult != nil {
				r := msg.result.RuleResult
				line.rollLine = fmt.Sprintf("%s check: rolled %d + %d = %d vs DC %d (%s)",
					r.Skill, r.Roll, r.AbilityModifier+r.ProficiencyBonus, r.Total, r.FinalDC, r.Verdict)
			}
			m.lines = append(m.lines, line)
			if msg.result.StoryCompleted {
				m.storyOver = true
			}
		}
		m.writeStoryContent()
		m.storyViewport.GotoBottom()
		return m, m.refreshStatus()

	case situationMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.lines = append(m.lines, storyLine{text: msg.text})
		}
		m.writeStoryContent()
		m.storyViewport.GotoBottom()
		return m, m.refreshStatus()

	case statusMsg:
		if msg.err == nil && msg.status != nil {
			m.status = msg.status
			m.metaViewport.SetContent(m.writeMetadata())
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeStoryContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) writeStoryContent() {
	storyWidth := m.storyViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("JUSTICAR") + "\n\n")
	content.WriteString("Describe your actions to play. The GM narrates the outcome.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(storyWidth-6, 1))) + "\n\n")

	for _, line := range m.lines {
		if line.fromPlayer {
			content.WriteString(playerStyle.Render(m.hero.Name+": ") +
				wordwrap.String(line.text, storyWidth-6) + "\n\n")
			continue
		}
		if line.rollLine != "" {
			content.WriteString(rollStyle.Render(wordwrap.String(line.rollLine, storyWidth)) + "\n")
		}
		content.WriteString(gmStyle.Render(GMName+": ") +
			wordwrap.String(line.text, storyWidth) + "\n\n")
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	if m.storyOver {
		content.WriteString(titleStyle.Render("THE END") + "\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.storyViewport.SetContent(content.String())
	m.storyViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CAMPAIGN") + "\n\n")

	content.WriteString("Campaign:\n")
	content.WriteString(m.start.Campaign.Name + "\n\n")

	content.WriteString("Hero:\n")
	content.WriteString(fmt.Sprintf("%s (%s)\n\n", m.hero.Name, m.hero.Class))

	if m.status != nil {
		snap := m.status.Snapshot
		content.WriteString("Location:\n")
		content.WriteString(snap.Location + "\n\n")

		if snap.QuestTitle != "" {
			content.WriteString("Quest:\n")
			content.WriteString(snap.QuestTitle + "\n")
			if snap.QuestDone {
				content.WriteString("(complete)\n")
			}
			content.WriteString("\n")
		}

		if len(snap.NPCsPresent) > 0 {
			content.WriteString("Present:\n")
			for _, name := range snap.NPCsPresent {
				content.WriteString("• " + name + "\n")
			}
			content.WriteString("\n")
		}

		if len(snap.Flags) > 0 {
			content.WriteString("Story flags:\n")
			for k, v := range snap.Flags {
				content.WriteString(fmt.Sprintf("• %s: %s\n", k, v))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Act\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /scene: New scene\n")

	return content.String()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /scene - Ask the GM for a fresh scene
• Ctrl+C - Quit

How to play:
• Describe what your character does and press Enter
• Risky actions trigger a d20 skill check
• The GM narrates the outcome and the story moves on
`
		m.lines = append(m.lines, storyLine{text: helpText})
		m.writeStoryContent()

	case "/scene":
		if m.loading || m.storyOver {
			return m, nil
		}
		m.loading = true
		m.progressTick = 0
		return m, tea.Batch(m.requestScene(), progressTick())
	}

	return m, nil
}

func (m ConsoleUI) submitTurn(actionText string) tea.Cmd {
	return func() tea.Msg {
		result, err := submitTurn(m.client, m.config.APIBaseURL,
			m.start.Campaign.ID, m.hero.Name, actionText)
		return turnResultMsg{result, err}
	}
}

func (m ConsoleUI) requestScene() tea.Cmd {
	return func() tea.Msg {
		text, err := requestSituation(m.client, m.config.APIBaseURL,
			m.start.Campaign.ID, m.hero.Name)
		return situationMsg{text, err}
	}
}

func (m ConsoleUI) refreshStatus() tea.Cmd {
	return func() tea.Msg {
		status, err := getStatus(m.client, m.config.APIBaseURL, m.start.Campaign.ID)
		return statusMsg{status, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(storyWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// renderProgressBar draws the animated bar shown while a turn resolves.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.storyViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
