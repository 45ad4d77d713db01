package common

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ToastType identifies the type of toast notification
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastError
	ToastWarning
)

// Toast represents a notification message
type Toast struct {
	Message  string
	Type     ToastType
	Duration time.Duration
}

// ToastDismissed is sent when a toast's display time has run out. Seq ties
// it to the toast it was scheduled for.
type ToastDismissed struct {
	Seq uint64
}

// ToastModel manages toast notifications. Only the latest toast shows.
type ToastModel struct {
	current *Toast
	seq     uint64
	styles  Styles
}

// NewToastModel creates a new toast model
func NewToastModel() *ToastModel {
	return &ToastModel{styles: DefaultStyles()}
}

// SetStyles updates the toast styles (for theme changes).
func (m *ToastModel) SetStyles(styles Styles) {
	m.styles = styles
}

// Show displays a toast notification
func (m *ToastModel) Show(message string, toastType ToastType, duration time.Duration) tea.Cmd {
	m.seq++
	m.current = &Toast{Message: message, Type: toastType, Duration: duration}
	seq := m.seq
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return ToastDismissed{Seq: seq}
	})
}

func (m *ToastModel) ShowSuccess(message string) tea.Cmd {
	return m.Show(message, ToastSuccess, 3*time.Second)
}

func (m *ToastModel) ShowError(message string) tea.Cmd {
	return m.Show(message, ToastError, 5*time.Second)
}

func (m *ToastModel) ShowInfo(message string) tea.Cmd {
	return m.Show(message, ToastInfo, 3*time.Second)
}

func (m *ToastModel) ShowWarning(message string) tea.Cmd {
	return m.Show(message, ToastWarning, 4*time.Second)
}

// Update hides the toast when its own dismiss tick arrives. Ticks of
// replaced toasts are ignored.
func (m *ToastModel) Update(msg tea.Msg) {
	if d, ok := msg.(ToastDismissed); ok && d.Seq == m.seq {
		m.current = nil
	}
}

// View renders the toast notification
func (m *ToastModel) View() string {
	if m.current == nil {
		return ""
	}

	var style lipgloss.Style
	var icon string
	switch m.current.Type {
	case ToastSuccess:
		style = m.styles.ToastSuccess
		icon = "✓ "
	case ToastError:
		style = m.styles.ToastError
		icon = "✗ "
	case ToastWarning:
		style = m.styles.ToastWarning
		icon = "! "
	default:
		style = m.styles.ToastInfo
		icon = "i "
	}
	return style.Render(icon + m.current.Message)
}

// Visible returns whether a toast is showing
func (m *ToastModel) Visible() bool {
	return m.current != nil
}

// Dismiss immediately hides the toast
func (m *ToastModel) Dismiss() {
	m.current = nil
}
