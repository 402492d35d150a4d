// Package input defines the frontend-neutral key event consumed by the
// session controller. Key names follow bubbletea's conventions ("ctrl+t",
// "alt+t", "esc") so bindings read the same in every frontend.
package input

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Code identifies the key that was pressed.
type Code int

const (
	CodeUnknown Code = iota
	CodeRune         // printable character, see Key.Rune
	CodeEscape
	CodeEnter
	CodeTab
	CodeBackspace
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
)

var codeNames = map[Code]string{
	CodeEscape:    "esc",
	CodeEnter:     "enter",
	CodeTab:       "tab",
	CodeBackspace: "backspace",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
}

// Mod is a bitmask of held modifiers.
type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModAlt
	ModShift
)

// Kind distinguishes presses from releases. Only presses drive the session.
type Kind int

const (
	Press Kind = iota
	Release
)

// Key is one keyboard event.
type Key struct {
	Code Code
	Rune rune
	Mod  Mod
	Kind Kind
}

// Rune builds a plain character press.
func Rune(r rune) Key {
	return Key{Code: CodeRune, Rune: r}
}

// Ctrl builds a Control+letter press.
func Ctrl(r rune) Key {
	return Key{Code: CodeRune, Rune: unicode.ToLower(r), Mod: ModCtrl}
}

// Alt builds an Alt+character press.
func Alt(r rune) Key {
	return Key{Code: CodeRune, Rune: r, Mod: ModAlt}
}

// Named builds a press of a non-character key.
func Named(c Code) Key {
	return Key{Code: c}
}

// String returns the bubbletea-style name of the key, e.g. "alt+ctrl+t".
func (k Key) String() string {
	var sb strings.Builder
	if k.Mod&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if k.Mod&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if k.Mod&ModShift != 0 && k.Code != CodeRune {
		sb.WriteString("shift+")
	}

	switch k.Code {
	case CodeRune:
		r := k.Rune
		if k.Mod&ModCtrl != 0 {
			r = unicode.ToLower(r)
		}
		if r == ' ' {
			sb.WriteString("space")
		} else {
			sb.WriteRune(r)
		}
	case CodeUnknown:
		sb.WriteString("unknown")
	default:
		sb.WriteString(codeNames[k.Code])
	}
	return sb.String()
}

// Parse converts a key name such as "ctrl+t", "alt+T" or "esc" into a Key.
func Parse(name string) (Key, error) {
	if name == "" {
		return Key{}, fmt.Errorf("empty key name")
	}
	if name == "+" {
		return Rune('+'), nil
	}

	parts := strings.Split(name, "+")
	base := parts[len(parts)-1]
	var mod Mod
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "ctrl":
			mod |= ModCtrl
		case "alt":
			mod |= ModAlt
		case "shift":
			mod |= ModShift
		default:
			return Key{}, fmt.Errorf("key %q: unknown modifier %q", name, p)
		}
	}

	if base == "space" {
		return Key{Code: CodeRune, Rune: ' ', Mod: mod}, nil
	}
	for code, n := range codeNames {
		if base == n {
			return Key{Code: code, Mod: mod}, nil
		}
	}
	if utf8.RuneCountInString(base) != 1 {
		return Key{}, fmt.Errorf("key %q: unknown key %q", name, base)
	}

	r, _ := utf8.DecodeRuneInString(base)
	if mod&ModCtrl != 0 {
		r = unicode.ToLower(r)
	}
	return Key{Code: CodeRune, Rune: r, Mod: mod}, nil
}

// ParseList parses a comma separated key script such as "ctrl+t,l,alt+t".
func ParseList(script string) ([]Key, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, nil
	}
	var keys []Key
	for _, name := range strings.Split(script, ",") {
		k, err := Parse(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
