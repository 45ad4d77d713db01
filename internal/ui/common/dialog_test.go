package common

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/tabdeck/tabdeck/internal/mouse"
	"github.com/tabdeck/tabdeck/internal/ui/compositor"
)

func showDialog(t *testing.T) (*compositor.Stack, *ConfirmDialog) {
	t.Helper()
	stack := compositor.NewStack()
	d := NewConfirmDialog(stack, "exec", "Run exporter?", "tabs-to-links will read your session file.")
	d.Show(100, 40)
	if !d.Visible() || stack.Len() != 1 {
		t.Fatal("dialog should be open on the stack")
	}
	return stack, d
}

func result(t *testing.T, cmd tea.Cmd) DialogResult {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	res, ok := cmd().(DialogResult)
	if !ok {
		t.Fatal("expected a DialogResult")
	}
	return res
}

func TestConfirmDialogKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyPressMsg
		want bool
	}{
		{"yes", []tea.KeyPressMsg{{Code: 'y', Text: "y"}}, true},
		{"no", []tea.KeyPressMsg{{Code: 'n', Text: "n"}}, false},
		{"escape", []tea.KeyPressMsg{{Code: tea.KeyEscape}}, false},
		{"enter defaults to no", []tea.KeyPressMsg{{Code: tea.KeyEnter}}, false},
		{"switch then enter", []tea.KeyPressMsg{{Code: tea.KeyLeft}, {Code: tea.KeyEnter}}, true},
		{"switch twice then enter", []tea.KeyPressMsg{{Code: tea.KeyTab}, {Code: tea.KeyTab}, {Code: tea.KeyEnter}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack, d := showDialog(t)
			var cmd tea.Cmd
			for _, k := range tt.keys {
				_, cmd = stack.Route(k)
			}
			res := result(t, cmd)
			if res.ID != "exec" || res.Confirmed != tt.want {
				t.Fatalf("result = %+v, want confirmed=%v", res, tt.want)
			}
			if d.Visible() || stack.Len() != 0 {
				t.Fatal("dialog should close after answering")
			}
		})
	}
}

func TestConfirmDialogClickOption(t *testing.T) {
	_, d := showDialog(t)
	if len(d.hits) != 2 {
		t.Fatalf("expected 2 option hits, got %d", len(d.hits))
	}
	fx, fy := d.styles.DialogBox.GetFrameSize()
	yes := d.hits[0].region
	click := mouse.Msg{Event: mouse.Click{
		Button:   mouse.ButtonLeft,
		State:    mouse.StatePressed,
		Position: mouse.Position{X: d.frame.Left + fx/2 + yes.Left + 1, Y: d.frame.Top + fy/2 + yes.Top + 1},
	}}
	if res := result(t, d.HandleInput(click)); !res.Confirmed {
		t.Fatal("clicking Yes should confirm")
	}
}

func TestConfirmDialogClickOutsideDeclines(t *testing.T) {
	stack, d := showDialog(t)
	outside := mouse.Msg{Event: mouse.Click{Button: mouse.ButtonLeft, State: mouse.StatePressed, Position: mouse.Position{X: 1, Y: 1}}}
	if d.frame.Contains(0, 0) {
		t.Fatal("dialog should be centered away from the corner")
	}
	handled, cmd := stack.Route(outside)
	if !handled {
		t.Fatal("stack should consume the outside click")
	}
	if res := result(t, cmd); res.Confirmed {
		t.Fatal("outside click should decline")
	}
}

func TestConfirmDialogIsCentered(t *testing.T) {
	_, d := showDialog(t)
	w, h := compositor.ViewDimensions(d.View())
	x, y := compositor.Centered(w, h, 100, 40)
	if d.frame.Left != x || d.frame.Top != y || d.frame.Width != w || d.frame.Height != h {
		t.Fatalf("frame = %+v, want %d,%d %dx%d", d.frame, x, y, w, h)
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	stack := compositor.NewStack()
	h := NewHelpOverlay(stack, []HelpSection{{Title: "General", Bindings: []HelpBinding{{Key: "q", Desc: "quit"}}}})
	h.Show(80, 24)
	_, cmd := stack.Route(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd == nil {
		t.Fatal("expected close command")
	}
	if _, ok := cmd().(HelpClosed); !ok || h.Visible() {
		t.Fatal("help should close on any key")
	}
}

func TestToastReplacedTickIgnored(t *testing.T) {
	m := NewToastModel()
	m.Show("first", ToastInfo, time.Hour)
	m.Show("second", ToastError, time.Hour)
	m.Update(ToastDismissed{Seq: 1})
	if !m.Visible() {
		t.Fatal("stale dismiss should not hide the newer toast")
	}
	m.Update(ToastDismissed{Seq: 2})
	if m.Visible() || m.View() != "" {
		t.Fatal("toast should be dismissed")
	}
}
