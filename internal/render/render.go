// Package render formats conversations for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"omnirag/console/internal/conversation"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/model"
)

var (
	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	evidenceBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Format is an export format for session history.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want text, json or yaml)", app_errors.ErrValidation, s)
	}
}

// Bot prints the chat header for a bot.
func Bot(w io.Writer, bot *model.Bot) {
	if bot == nil {
		return
	}
	header := botStyle.Render(bot.Name)
	if m := bot.Config.ModelName(); m != "" {
		header += mutedStyle.Render(" " + m)
	}
	_, _ = fmt.Fprintln(w, header)
}

func speaker(role model.Role) string {
	if role == model.RoleUser {
		return userStyle.Render("you")
	}
	return assistantStyle.Render("assistant")
}

// Message prints one complete chat turn.
func Message(w io.Writer, msg model.ChatMessage) {
	_, _ = fmt.Fprintf(w, "%s %s\n", speaker(msg.Role), msg.Content)
	if len(msg.Sources) > 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("  sources: "+strings.Join(msg.Sources, ", ")))
	}
}

// Evidence prints the evidence panel. An empty panel prints nothing.
func Evidence(w io.Writer, chunks []model.RetrievedChunk) {
	if len(chunks) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString(assistantStyle.Render(fmt.Sprintf("Evidence (%d)", len(chunks))))
	for i, c := range chunks {
		score := c.HybridScore
		if score == 0 {
			score = c.Score
		}
		fmt.Fprintf(&b, "\n%d. %s %s\n   %s", i+1, c.Source, mutedStyle.Render(fmt.Sprintf("%.2f", score)), snippet(c.Text, 160))
		for _, h := range c.Highlights {
			b.WriteString("\n   " + logStyle.Render("» "+h))
		}
	}
	_, _ = fmt.Fprintln(w, evidenceBox.Render(b.String()))
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// Sessions prints a session list as a table.
func Sessions(w io.Writer, sessions []model.Session, active string) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("No conversations yet."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "\tID\tTITLE\tUPDATED")
	for _, s := range sessions {
		marker := " "
		if s.ID == active {
			marker = "*"
		}
		title := s.Title
		if title == "" {
			title = "New conversation"
		}
		updated := s.UpdatedAt
		if updated == "" {
			updated = s.CreatedAt
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, s.ID, title, updated)
	}
	_ = tw.Flush()
}

// Notification prints a toast line.
func Notification(w io.Writer, n conversation.Notification) {
	style := successStyle
	if n.Level == conversation.LevelError {
		style = errorStyle
	}
	_, _ = fmt.Fprintln(w, style.Render(n.Text))
}

// Error prints an error line.
func Error(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

// History writes messages in the given format.
func History(w io.Writer, messages []model.ChatMessage, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(messages); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, m := range messages {
			Message(w, m)
		}
		return nil
	}
}

// Stream prints assistant replies incrementally from conversation events.
// Only the part of the content not yet printed is written on each patch.
type Stream struct {
	w       io.Writer
	printed map[string]int
	logs    map[string]int
	open    string
}

func NewStream(w io.Writer) *Stream {
	return &Stream{w: w, printed: make(map[string]int), logs: make(map[string]int)}
}

// Handle renders one event.
func (s *Stream) Handle(ev conversation.Event) {
	switch ev.Kind {
	case conversation.EventMessageAppended:
		if ev.Message != nil && ev.Message.Role == model.RoleAssistant {
			s.begin(ev.Message.ID)
		}
	case conversation.EventMessagePatched:
		if ev.Message != nil && ev.Message.Role == model.RoleAssistant {
			s.patch(*ev.Message)
		}
	case conversation.EventMessageRemoved:
		if ev.MessageID == s.open {
			s.end()
		}
	case conversation.EventStreamingChanged:
		if !ev.Streaming {
			s.end()
		}
	case conversation.EventNotification:
		if ev.Notification != nil {
			s.end()
			Notification(s.w, *ev.Notification)
		}
	}
}

func (s *Stream) begin(id string) {
	s.end()
	s.open = id
	_, _ = fmt.Fprint(s.w, speaker(model.RoleAssistant)+" ")
}

func (s *Stream) patch(msg model.ChatMessage) {
	if msg.ID != s.open {
		return
	}
	if seen := s.logs[msg.ID]; seen < len(msg.AgentLogs) {
		for _, l := range msg.AgentLogs[seen:] {
			_, _ = fmt.Fprint(s.w, logStyle.Render("["+l.Step+"] "))
		}
		s.logs[msg.ID] = len(msg.AgentLogs)
	}

	done := s.printed[msg.ID]
	if done > len(msg.Content) {
		done = 0
	}
	_, _ = fmt.Fprint(s.w, msg.Content[done:])
	s.printed[msg.ID] = len(msg.Content)
}

func (s *Stream) end() {
	if s.open == "" {
		return
	}
	_, _ = fmt.Fprintln(s.w)
	s.open = ""
}
