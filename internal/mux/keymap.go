package mux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/1broseidon/tilemux/internal/config"
	"github.com/1broseidon/tilemux/internal/input"
)

// KeyMap binds key names to session actions. It satisfies bubbles'
// help.KeyMap so frontends can render the bindings.
type KeyMap struct {
	Quit            key.Binding
	SplitHorizontal key.Binding
	SplitVertical   key.Binding
	SelectPrev      key.Binding
	SelectNext      key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.DefaultConfig().Keys)
}

// NewKeyMap builds bindings from the configured key lists. Names are
// canonicalized so "Ctrl+T" and "ctrl+t" bind the same key.
func NewKeyMap(keys config.Keys) KeyMap {
	return KeyMap{
		Quit:            newBinding(keys.Quit, "quit"),
		SplitHorizontal: newBinding(keys.SplitHorizontal, "split ─"),
		SplitVertical:   newBinding(keys.SplitVertical, "split │"),
		SelectPrev:      newBinding(keys.SelectPrev, "prev"),
		SelectNext:      newBinding(keys.SelectNext, "next"),
	}
}

func newBinding(names []string, desc string) key.Binding {
	canon := make([]string, 0, len(names))
	for _, n := range names {
		if k, err := input.Parse(n); err == nil {
			n = k.String()
		}
		canon = append(canon, n)
	}
	return key.NewBinding(
		key.WithKeys(canon...),
		key.WithHelp(helpKeys(canon), desc),
	)
}

// helpKeys shortens a key list for the help bar: "h/H", "esc/q".
func helpKeys(names []string) string {
	if len(names) > 2 {
		names = names[:2]
	}
	return strings.Join(names, "/")
}

// Resolve maps a key to its action. Unbound keys resolve to ActionNone.
func (k KeyMap) Resolve(msg fmt.Stringer) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit
	case key.Matches(msg, k.SplitHorizontal):
		return ActionSplitHorizontal
	case key.Matches(msg, k.SplitVertical):
		return ActionSplitVertical
	case key.Matches(msg, k.SelectPrev):
		return ActionSelectPrev
	case key.Matches(msg, k.SelectNext):
		return ActionSelectNext
	default:
		return ActionNone
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SplitHorizontal, k.SplitVertical, k.SelectPrev, k.SelectNext, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SplitHorizontal, k.SplitVertical},
		{k.SelectPrev, k.SelectNext},
		{k.Quit},
	}
}
