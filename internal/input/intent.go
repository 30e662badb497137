// Package input turns terminal key events into editor intents.
//
// Every key event resolves to at most one Intent, which the event loop
// consumes exactly once. Events without a binding resolve to
// ErrUnsupported and are ignored by the caller.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported indicates an input event with no mapped intent.
var ErrUnsupported = errors.New("unsupported input")

// ErrUnknownAction indicates an action name that has no intent.
var ErrUnknownAction = errors.New("unknown action")

// Kind enumerates the editor intents.
type Kind uint8

const (
	None Kind = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	Home
	End
	InsertChar
	Enter
	Backspace
	Delete
	Save
	Quit
)

var kindNames = map[Kind]string{
	None:       "none",
	MoveUp:     "up",
	MoveDown:   "down",
	MoveLeft:   "left",
	MoveRight:  "right",
	Home:       "home",
	End:        "end",
	InsertChar: "insert",
	Enter:      "enter",
	Backspace:  "backspace",
	Delete:     "delete",
	Save:       "save",
	Quit:       "quit",
}

// String returns the action name of the intent kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsMove reports whether the intent only navigates.
func (k Kind) IsMove() bool {
	switch k {
	case MoveUp, MoveDown, MoveLeft, MoveRight, Home, End:
		return true
	}
	return false
}

// IsEdit reports whether the intent mutates the document.
func (k Kind) IsEdit() bool {
	switch k {
	case InsertChar, Enter, Backspace, Delete:
		return true
	}
	return false
}

// ParseAction maps an action name (as used in configuration and scripts)
// to its intent kind. InsertChar has no action name since it carries the
// typed character.
func ParseAction(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name && k != None && k != InsertChar {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Intent is one resolved input event.
type Intent struct {
	Kind Kind
	Rune rune // InsertChar only
}

// Of returns an intent of kind k.
func Of(k Kind) Intent {
	return Intent{Kind: k}
}

// Char returns an InsertChar intent.
func Char(r rune) Intent {
	return Intent{Kind: InsertChar, Rune: r}
}

// String returns a human-readable representation of the intent.
func (i Intent) String() string {
	if i.Kind == InsertChar {
		return fmt.Sprintf("insert(%q)", i.Rune)
	}
	return i.Kind.String()
}
