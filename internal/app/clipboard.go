package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/tabdeck/tabdeck/internal/messages"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

func (a *App) copyToClipboard(what, text string) tea.Cmd {
	if text == "" {
		return a.toast.ShowInfo("Nothing to copy")
	}
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return messages.Copied{What: what, Err: fmt.Errorf("clipboard error: %w", err)}
		}
		return messages.Copied{What: what}
	}
}
