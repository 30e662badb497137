package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/exedit/internal/renderer/backend"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Stroke is a normalized key press used as a keymap key.
//
// Ctrl+letter is stored as the matching control key with no modifiers, and
// Shift is dropped from rune strokes since the rune already carries it.
type Stroke struct {
	Key  backend.Key
	Rune rune
	Mod  backend.ModMask
}

// StrokeOf normalizes a backend key event.
func StrokeOf(ev backend.Event) Stroke {
	return normalize(Stroke{Key: ev.Key, Rune: ev.Rune, Mod: ev.Mod})
}

func normalize(s Stroke) Stroke {
	if s.Key == backend.KeyRune && s.Mod.Has(backend.ModCtrl) {
		if ck := backend.CtrlKey(s.Rune); ck != backend.KeyNone {
			s.Key = ck
		}
	}
	if s.Key >= backend.KeyCtrlSpace && s.Key <= backend.KeyCtrlZ {
		s.Mod &^= backend.ModCtrl | backend.ModShift
	}
	if s.Key == backend.KeyRune {
		s.Mod &^= backend.ModShift
	} else {
		s.Rune = 0
	}
	return s
}

// String returns the canonical spec for the stroke.
func (s Stroke) String() string {
	var parts []string
	if s.Mod.Has(backend.ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if s.Mod.Has(backend.ModAlt) {
		parts = append(parts, "Alt")
	}
	if s.Mod.Has(backend.ModShift) {
		parts = append(parts, "Shift")
	}
	if s.Mod.Has(backend.ModMeta) {
		parts = append(parts, "Meta")
	}
	switch {
	case s.Key == backend.KeyRune:
		parts = append(parts, string(s.Rune))
	case s.Key >= backend.KeyCtrlA && s.Key <= backend.KeyCtrlZ:
		parts = append(parts, "Ctrl", string(rune('A'+s.Key-backend.KeyCtrlA)))
	default:
		if name, ok := keyNames[s.Key]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("Key(%d)", int(s.Key)))
		}
	}
	return strings.Join(parts, "+")
}

var keyNames = map[backend.Key]string{
	backend.KeyEscape:    "Escape",
	backend.KeyEnter:     "Enter",
	backend.KeyTab:       "Tab",
	backend.KeyBackspace: "Backspace",
	backend.KeyDelete:    "Delete",
	backend.KeyInsert:    "Insert",
	backend.KeyHome:      "Home",
	backend.KeyEnd:       "End",
	backend.KeyPageUp:    "PageUp",
	backend.KeyPageDown:  "PageDown",
	backend.KeyUp:        "Up",
	backend.KeyDown:      "Down",
	backend.KeyLeft:      "Left",
	backend.KeyRight:     "Right",
	backend.KeyCtrlSpace: "Ctrl+Space",
	backend.KeyF1:        "F1",
	backend.KeyF2:        "F2",
	backend.KeyF3:        "F3",
	backend.KeyF4:        "F4",
	backend.KeyF5:        "F5",
	backend.KeyF6:        "F6",
	backend.KeyF7:        "F7",
	backend.KeyF8:        "F8",
	backend.KeyF9:        "F9",
	backend.KeyF10:       "F10",
	backend.KeyF11:       "F11",
	backend.KeyF12:       "F12",
}

// keyAliases maps lower-case key names, including Vim aliases, to keys.
var keyAliases = map[string]backend.Key{
	"esc":       backend.KeyEscape,
	"escape":    backend.KeyEscape,
	"cr":        backend.KeyEnter,
	"return":    backend.KeyEnter,
	"enter":     backend.KeyEnter,
	"tab":       backend.KeyTab,
	"bs":        backend.KeyBackspace,
	"backspace": backend.KeyBackspace,
	"del":       backend.KeyDelete,
	"delete":    backend.KeyDelete,
	"ins":       backend.KeyInsert,
	"insert":    backend.KeyInsert,
	"home":      backend.KeyHome,
	"end":       backend.KeyEnd,
	"pageup":    backend.KeyPageUp,
	"pgup":      backend.KeyPageUp,
	"pagedown":  backend.KeyPageDown,
	"pgdn":      backend.KeyPageDown,
	"up":        backend.KeyUp,
	"down":      backend.KeyDown,
	"left":      backend.KeyLeft,
	"right":     backend.KeyRight,
}

// runeAliases maps Vim names for punctuation to runes.
var runeAliases = map[string]rune{
	"space":  ' ',
	"lt":     '<',
	"gt":     '>',
	"bar":    '|',
	"bslash": '\\',
}

// ParseKey parses a key specification string into a Stroke.
//
// Supported formats:
//   - Single character: "a", "1", "@"
//   - Key names: "Enter", "Home", "Backspace", "F5"
//   - With modifiers: "Ctrl+S", "alt+x"
//   - Vim-style: "<C-s>", "<A-x>", "<CR>", "<BS>"
func ParseKey(spec string) (Stroke, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Stroke{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}
	return parseKeyWithModifiers(spec, backend.ModNone)
}

// parseVimStyle parses Vim-style notation like "C-s", "A-x", "CR".
func parseVimStyle(inner string) (Stroke, error) {
	parts := strings.Split(strings.TrimSpace(inner), "-")
	keyPart := parts[len(parts)-1]
	var mods backend.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			mods |= backend.ModCtrl
		case "a":
			mods |= backend.ModAlt
		case "s":
			mods |= backend.ModShift
		case "m", "d":
			mods |= backend.ModMeta
		default:
			return Stroke{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Stroke, error) {
	parts := strings.Split(spec, "+")
	var mods backend.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control", "c":
			mods |= backend.ModCtrl
		case "alt", "opt", "option", "a":
			mods |= backend.ModAlt
		case "shift", "s":
			mods |= backend.ModShift
		case "meta", "cmd", "super", "m":
			mods |= backend.ModMeta
		default:
			return Stroke{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return parseKeyWithModifiers(parts[len(parts)-1], mods)
}

// parseKeyWithModifiers parses a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods backend.ModMask) (Stroke, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Stroke{}, ErrInvalidSpec
	}
	lower := strings.ToLower(keyPart)

	if k, ok := keyAliases[lower]; ok {
		return normalize(Stroke{Key: k, Mod: mods}), nil
	}
	if r, ok := runeAliases[lower]; ok {
		return normalize(Stroke{Key: backend.KeyRune, Rune: r, Mod: mods}), nil
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(lower[1:], "%d", &n); err == nil && n >= 1 && n <= 12 && fmt.Sprint(n) == lower[1:] {
			return normalize(Stroke{Key: backend.KeyF1 + backend.Key(n-1), Mod: mods}), nil
		}
	}
	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		if mods.Has(backend.ModCtrl) {
			if ck := backend.CtrlKey(r); ck != backend.KeyNone {
				return normalize(Stroke{Key: ck, Mod: mods}), nil
			}
		}
		return normalize(Stroke{Key: backend.KeyRune, Rune: r, Mod: mods}), nil
	}
	return Stroke{}, fmt.Errorf("%w: %q", ErrInvalidSpec, keyPart)
}
