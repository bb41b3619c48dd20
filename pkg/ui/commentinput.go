package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CommentInputModel is the modal for entering an engineering comment on a
// defect group.
type CommentInputModel struct {
	textarea textarea.Model
	groupKey string
	title    string
	width    int

	submitted bool
	cancelled bool
}

// NewCommentInputModel creates the modal, pre-filled with any existing
// comment text.
func NewCommentInputModel(groupKey, title, existing string) CommentInputModel {
	ta := textarea.New()
	ta.Placeholder = "Engineering assessment, follow-up actions, document links..."
	ta.SetValue(existing)
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(56)
	ta.SetHeight(6)

	return CommentInputModel{
		textarea: ta,
		groupKey: groupKey,
		title:    title,
	}
}

// Init implements tea.Model.
func (m CommentInputModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m CommentInputModel) Update(msg tea.Msg) (CommentInputModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.cancelled = true
			return m, nil
		case "ctrl+s", "ctrl+j":
			m.submitted = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m CommentInputModel) View() string {
	width := 62
	if m.width > 0 && m.width < 72 {
		width = m.width - 10
	}

	var b strings.Builder
	titleStyle := TitleStyle.Width(width).Align(lipgloss.Center)
	b.WriteString(titleStyle.Render("Engineering note for " + m.title))
	b.WriteString("\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n\n")
	b.WriteString(HintStyle.Render("[Ctrl+S] Save  [Esc] Cancel"))

	return FocusedPanelStyle.Padding(1, 2).Width(width).Render(b.String())
}

// SetSize adapts the modal to the terminal size.
func (m *CommentInputModel) SetSize(width, height int) {
	m.width = width
	taWidth := width - 20
	if taWidth < 30 {
		taWidth = 30
	}
	if taWidth > 60 {
		taWidth = 60
	}
	m.textarea.SetWidth(taWidth)
}

// Submitted returns true once the user saved the note.
func (m CommentInputModel) Submitted() bool { return m.submitted }

// Cancelled returns true once the user dismissed the modal.
func (m CommentInputModel) Cancelled() bool { return m.cancelled }

// Text returns the entered comment text.
func (m CommentInputModel) Text() string { return m.textarea.Value() }

// GroupKey returns the defect group being annotated.
func (m CommentInputModel) GroupKey() string { return m.groupKey }
