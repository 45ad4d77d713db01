package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/tabdeck/tabdeck/internal/config"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionFocusNext Action = "focus_next"
	ActionFocusPrev Action = "focus_prev"

	ActionFormat    Action = "format"
	ActionExport    Action = "export"
	ActionCopy      Action = "copy"
	ActionReload    Action = "reload"
	ActionSelectAll Action = "select_all"
	ActionClear     Action = "clear_selection"

	ActionTop    Action = "top"
	ActionBottom Action = "bottom"

	ActionHelp  Action = "help"
	ActionTheme Action = "theme"
	ActionQuit  Action = "quit"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

// KeyMap defines all keybindings for the application.
type KeyMap struct {
	FocusNext key.Binding
	FocusPrev key.Binding

	Format    key.Binding
	Export    key.Binding
	Copy      key.Binding
	Reload    key.Binding
	SelectAll key.Binding
	Clear     key.Binding

	Top    key.Binding
	Bottom key.Binding

	Help  key.Binding
	Theme key.Binding
	Quit  key.Binding
}

var defaults = []bindingDef{
	{ActionFocusNext, []string{"tab"}, "next pane"},
	{ActionFocusPrev, []string{"shift+tab"}, "previous pane"},
	{ActionFormat, []string{"f"}, "format"},
	{ActionExport, []string{"e"}, "export"},
	{ActionCopy, []string{"y"}, "copy"},
	{ActionReload, []string{"r"}, "reload"},
	{ActionSelectAll, []string{"a"}, "select all"},
	{ActionClear, []string{"c"}, "clear selection"},
	{ActionTop, []string{"g", "home"}, "top"},
	{ActionBottom, []string{"G", "end"}, "bottom"},
	{ActionHelp, []string{"?"}, "help"},
	{ActionTheme, []string{"t"}, "next theme"},
	{ActionQuit, []string{"q", "ctrl+c"}, "quit"},
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	var km KeyMap
	for _, def := range defaults {
		*km.field(def.action) = bindingFromDef(cfg, def)
	}
	return km
}

func (km *KeyMap) field(action Action) *key.Binding {
	switch action {
	case ActionFocusNext:
		return &km.FocusNext
	case ActionFocusPrev:
		return &km.FocusPrev
	case ActionFormat:
		return &km.Format
	case ActionExport:
		return &km.Export
	case ActionCopy:
		return &km.Copy
	case ActionReload:
		return &km.Reload
	case ActionSelectAll:
		return &km.SelectAll
	case ActionClear:
		return &km.Clear
	case ActionTop:
		return &km.Top
	case ActionBottom:
		return &km.Bottom
	case ActionHelp:
		return &km.Help
	case ActionTheme:
		return &km.Theme
	case ActionQuit:
		return &km.Quit
	}
	return nil
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys, ok := cfg.BindingFor(string(def.action))
	if !ok || len(keys) == 0 {
		keys = def.keys
	}
	helpKey := strings.Join(keys, "/")
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, def.desc),
	)
}

// BindingForAction returns the binding for action, or a disabled binding
// for an unknown action.
func BindingForAction(km KeyMap, action Action) key.Binding {
	if b := km.field(action); b != nil {
		return *b
	}
	return key.NewBinding(key.WithDisabled())
}

// PrimaryKey returns the first key in the binding, if present.
func PrimaryKey(binding key.Binding) string {
	keys := binding.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// BindingHint returns a single key hint for a binding, falling back to help text.
func BindingHint(binding key.Binding) string {
	k := PrimaryKey(binding)
	if k == "" {
		return binding.Help().Key
	}
	return k
}

// ActionInfo describes a configurable action for UI display.
type ActionInfo struct {
	Action Action
	Desc   string
	Group  string
}

// ActionInfos returns the ordered list of actions for UI display.
func ActionInfos() []ActionInfo {
	return []ActionInfo{
		{Action: ActionFocusNext, Desc: "Next pane", Group: "Navigation"},
		{Action: ActionFocusPrev, Desc: "Previous pane", Group: "Navigation"},
		{Action: ActionTop, Desc: "Jump to top", Group: "Navigation"},
		{Action: ActionBottom, Desc: "Jump to bottom", Group: "Navigation"},
		{Action: ActionSelectAll, Desc: "Select all groups", Group: "Groups"},
		{Action: ActionClear, Desc: "Clear selection", Group: "Groups"},
		{Action: ActionReload, Desc: "Reload session", Group: "Groups"},
		{Action: ActionFormat, Desc: "Choose format", Group: "Output"},
		{Action: ActionExport, Desc: "Export links", Group: "Output"},
		{Action: ActionCopy, Desc: "Copy preview", Group: "Output"},
		{Action: ActionHelp, Desc: "Toggle help", Group: "Global"},
		{Action: ActionTheme, Desc: "Cycle theme", Group: "Global"},
		{Action: ActionQuit, Desc: "Quit", Group: "Global"},
	}
}

// HelpGroup is a titled set of bindings for display.
type HelpGroup struct {
	Title    string
	Bindings []key.Binding
	Descs    []string
}

// Groups returns the bindings grouped as ActionInfos orders them.
func Groups(km KeyMap) []HelpGroup {
	var groups []HelpGroup
	index := map[string]int{}
	for _, info := range ActionInfos() {
		i, ok := index[info.Group]
		if !ok {
			i = len(groups)
			index[info.Group] = i
			groups = append(groups, HelpGroup{Title: info.Group})
		}
		groups[i].Bindings = append(groups[i].Bindings, BindingForAction(km, info.Action))
		groups[i].Descs = append(groups[i].Descs, info.Desc)
	}
	return groups
}
