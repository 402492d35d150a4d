package tui

import (
	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/tilemux/internal/input"
)

// convertKey maps a bubbletea key message to an input.Key. Pastes and
// multi-rune messages are not keys and report false.
func convertKey(msg tea.KeyMsg) (input.Key, bool) {
	if msg.Paste {
		return input.Key{}, false
	}
	var mod input.Mod
	if msg.Alt {
		mod |= input.ModAlt
	}

	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return input.Key{}, false
		}
		return input.Key{Code: input.CodeRune, Rune: msg.Runes[0], Mod: mod}, true
	case tea.KeySpace:
		return input.Key{Code: input.CodeRune, Rune: ' ', Mod: mod}, true
	case tea.KeyEsc:
		return input.Key{Code: input.CodeEscape, Mod: mod}, true
	case tea.KeyEnter:
		return input.Key{Code: input.CodeEnter, Mod: mod}, true
	case tea.KeyTab:
		return input.Key{Code: input.CodeTab, Mod: mod}, true
	case tea.KeyShiftTab:
		return input.Key{Code: input.CodeTab, Mod: mod | input.ModShift}, true
	case tea.KeyBackspace:
		return input.Key{Code: input.CodeBackspace, Mod: mod}, true
	case tea.KeyUp:
		return input.Key{Code: input.CodeUp, Mod: mod}, true
	case tea.KeyDown:
		return input.Key{Code: input.CodeDown, Mod: mod}, true
	case tea.KeyLeft:
		return input.Key{Code: input.CodeLeft, Mod: mod}, true
	case tea.KeyRight:
		return input.Key{Code: input.CodeRight, Mod: mod}, true
	}

	// Control letters. Tab and Enter share codes with ctrl+i and ctrl+m and
	// were handled above.
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		r := 'a' + rune(msg.Type-tea.KeyCtrlA)
		return input.Key{Code: input.CodeRune, Rune: r, Mod: mod | input.ModCtrl}, true
	}
	return input.Key{}, false
}
