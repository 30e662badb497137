package input

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/dshills/exedit/internal/renderer/backend"
)

// Keymap resolves key strokes to intents.
type Keymap struct {
	bindings map[Stroke]Kind
}

// defaultBindings are the built-in key specs per action.
var defaultBindings = map[Kind][]string{
	MoveUp:    {"Up"},
	MoveDown:  {"Down"},
	MoveLeft:  {"Left"},
	MoveRight: {"Right"},
	Home:      {"Home"},
	End:       {"End"},
	Enter:     {"Enter"},
	Backspace: {"Backspace"},
	Delete:    {"Delete"},
	Save:      {"Ctrl+S"},
	Quit:      {"Ctrl+Q"},
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[Stroke]Kind)}
}

// DefaultKeymap creates a keymap with the built-in bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	for kind, specs := range defaultBindings {
		for _, spec := range specs {
			s, err := ParseKey(spec)
			if err != nil {
				panic(fmt.Sprintf("input: bad default binding %q: %v", spec, err))
			}
			km.bindings[s] = kind
		}
	}
	return km
}

// Bind maps a key spec to a named action, replacing any existing binding
// for that key.
func (km *Keymap) Bind(spec, action string) error {
	s, err := ParseKey(spec)
	if err != nil {
		return err
	}
	kind, err := ParseAction(action)
	if err != nil {
		return err
	}
	km.bindings[s] = kind
	return nil
}

// Rebind replaces every binding of the action with the given key specs.
func (km *Keymap) Rebind(action string, specs ...string) error {
	kind, err := ParseAction(action)
	if err != nil {
		return err
	}
	strokes := make([]Stroke, 0, len(specs))
	for _, spec := range specs {
		s, err := ParseKey(spec)
		if err != nil {
			return fmt.Errorf("binding %s: %w", action, err)
		}
		strokes = append(strokes, s)
	}
	for s, k := range km.bindings {
		if k == kind {
			delete(km.bindings, s)
		}
	}
	for _, s := range strokes {
		km.bindings[s] = kind
	}
	return nil
}

// Lookup returns the action bound to a stroke.
func (km *Keymap) Lookup(s Stroke) (Kind, bool) {
	k, ok := km.bindings[normalize(s)]
	return k, ok
}

// Bindings returns the key specs bound to an action, sorted.
func (km *Keymap) Bindings(kind Kind) []string {
	var specs []string
	for s, k := range km.bindings {
		if k == kind {
			specs = append(specs, s.String())
		}
	}
	sort.Strings(specs)
	return specs
}

// Resolve maps a backend event to exactly one intent.
//
// Bound strokes win. Otherwise Tab and printable runes typed without Ctrl
// or Alt insert themselves. Everything else returns ErrUnsupported.
func (km *Keymap) Resolve(ev backend.Event) (Intent, error) {
	if ev.Type != backend.EventKey {
		return Intent{}, ErrUnsupported
	}
	s := StrokeOf(ev)
	if kind, ok := km.bindings[s]; ok {
		return Of(kind), nil
	}
	switch {
	case s.Key == backend.KeyTab && s.Mod == backend.ModNone:
		return Char('\t'), nil
	case s.Key == backend.KeyRune && !s.Mod.Has(backend.ModCtrl|backend.ModAlt|backend.ModMeta) && unicode.IsPrint(s.Rune):
		return Char(s.Rune), nil
	}
	return Intent{}, fmt.Errorf("%w: %s", ErrUnsupported, s)
}
