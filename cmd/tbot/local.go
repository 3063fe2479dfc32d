package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/serikit/seri/bot"
)

// localChatID keys the history and memories of the terminal session.
const localChatID int64 = 0

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type chatLine struct {
	who  string
	text string
}

type localModel struct {
	cfg     *bot.Manager
	mem     *bot.Memory
	llm     *bot.LLMClient
	input   textinput.Model
	lines   []chatLine
	waiting bool
}

type replyMsg struct {
	err  error
	text string
}

func newLocalModel(cfg *bot.Manager, mem *bot.Memory, llm *bot.LLMClient) *localModel {
	ti := textinput.New()
	ti.Placeholder = "Say something"
	ti.Prompt = "> "
	ti.Width = 70
	ti.Focus()
	return &localModel{cfg: cfg, mem: mem, llm: llm, input: ti}
}

func (m *localModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *localModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.lines = append(m.lines, chatLine{who: "You", text: text})
			m.mem.AppendHistory(localChatID, "User: "+text)
			m.waiting = true
			return m, m.generate(text)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lines = append(m.lines, chatLine{who: "err", text: msg.err.Error()})
			return m, nil
		}
		m.lines = append(m.lines, chatLine{who: "Bot", text: msg.text})
		m.mem.AppendHistory(localChatID, "Bot: "+msg.text)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *localModel) generate(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()

		cfg := m.cfg.Config()
		history := m.mem.History(localChatID, cfg.MaxContextMessages)
		memories := m.mem.Memories(localChatID)

		reply, err := m.llm.GenerateReply(ctx, cfg, history, memories, text)
		return replyMsg{text: reply, err: err}
	}
}

func (m *localModel) View() string {
	var b strings.Builder

	cfg := m.cfg.Config()
	b.WriteString(titleStyle.Render("Persona Chat"))
	b.WriteString(" ")
	b.WriteString(helpStyle.Render(cfg.Model))
	b.WriteString("\n\n")

	for _, line := range m.lines {
		switch line.who {
		case "You":
			b.WriteString(userStyle.Render("You: "))
		case "Bot":
			b.WriteString(botStyle.Render("Bot: "))
		default:
			b.WriteString(errorStyle.Render("Error: "))
		}
		b.WriteString(line.text)
		b.WriteString("\n")
	}
	if m.waiting {
		b.WriteString(helpStyle.Render("thinking..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send • esc quit"))
	return b.String()
}

func runLocal(cfg *bot.Manager, mem *bot.Memory, llm *bot.LLMClient) error {
	p := tea.NewProgram(newLocalModel(cfg, mem, llm), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
