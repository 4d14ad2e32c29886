// Package keymap maps raw key names and action names to calculator actions.
package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/charlie0129/calc/pkg/calculator"
)

// ErrUnknownKey is returned for keys that have no calculator meaning.
var ErrUnknownKey = errors.New("unknown key")

// Kind is the type of a calculator action.
type Kind int

const (
	Digit Kind = iota + 1
	Decimal
	Operator
	Evaluate
	ClearAll
	ClearEntry
	Backspace
)

// Action is a single calculator key press.
type Action struct {
	Kind     Kind
	Digit    byte
	Operator calculator.Operator
}

// Label is the text printed on the button that triggers a.
func (a Action) Label() string {
	switch a.Kind {
	case Digit:
		return string(a.Digit)
	case Decimal:
		return "."
	case Operator:
		return a.Operator.Symbol()
	case Evaluate:
		return "="
	case ClearAll:
		return "C"
	case ClearEntry:
		return "CE"
	case Backspace:
		return "⌫"
	}
	return ""
}

// String is the long action name accepted by ParseAction.
func (a Action) String() string {
	switch a.Kind {
	case Digit:
		return "digit:" + string(a.Digit)
	case Decimal:
		return "decimal"
	case Operator:
		return "operator:" + a.Operator.Name()
	case Evaluate:
		return "evaluate"
	case ClearAll:
		return "clear"
	case ClearEntry:
		return "clear-entry"
	case Backspace:
		return "backspace"
	}
	return "unknown"
}

// ParseKey maps a keyboard key name to an action: digits, ".", "+-*/",
// "Enter" or "=" to evaluate, "Escape" to clear everything, "Delete" to
// clear the entry and "Backspace" to delete the last character.
func ParseKey(key string) (Action, error) {
	if len(key) == 1 {
		c := key[0]
		switch {
		case c >= '0' && c <= '9':
			return Action{Kind: Digit, Digit: c}, nil
		case c == '.':
			return Action{Kind: Decimal}, nil
		case c == '=':
			return Action{Kind: Evaluate}, nil
		case c == '+' || c == '-' || c == '*' || c == '/':
			op, _ := calculator.ParseOperator(key)
			return Action{Kind: Operator, Operator: op}, nil
		}
	}

	switch strings.ToLower(key) {
	case "enter", "return":
		return Action{Kind: Evaluate}, nil
	case "escape", "esc":
		return Action{Kind: ClearAll}, nil
	case "delete", "del":
		return Action{Kind: ClearEntry}, nil
	case "backspace":
		return Action{Kind: Backspace}, nil
	}

	return Action{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// ParseAction parses a long action name such as "digit:7", "operator:add",
// "evaluate", "clear", "clear-entry" or "backspace". Button labels and key
// names are accepted as well.
func ParseAction(name string) (Action, error) {
	name = strings.TrimSpace(name)

	if kind, arg, ok := strings.Cut(name, ":"); ok {
		switch strings.ToLower(kind) {
		case "digit":
			if len(arg) != 1 || arg[0] < '0' || arg[0] > '9' {
				return Action{}, fmt.Errorf("invalid digit %q", arg)
			}
			return Action{Kind: Digit, Digit: arg[0]}, nil
		case "operator", "op":
			op, err := calculator.ParseOperator(arg)
			if err != nil {
				return Action{}, err
			}
			return Action{Kind: Operator, Operator: op}, nil
		}
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}

	switch strings.ToLower(name) {
	case "decimal", "point":
		return Action{Kind: Decimal}, nil
	case "evaluate", "equals":
		return Action{Kind: Evaluate}, nil
	case "clear", "c", "ac":
		return Action{Kind: ClearAll}, nil
	case "clear-entry", "ce":
		return Action{Kind: ClearEntry}, nil
	case "⌫":
		return Action{Kind: Backspace}, nil
	}

	if op, err := calculator.ParseOperator(name); err == nil {
		return Action{Kind: Operator, Operator: op}, nil
	}

	return ParseKey(name)
}

// ParseSequence splits s into actions. Whitespace separated tokens are parsed
// with ParseAction; a token that is not an action name is read one key at a
// time, so "12+3=" and "1 2 + 3 enter" are equivalent.
func ParseSequence(s string) ([]Action, error) {
	var actions []Action
	for _, tok := range strings.FieldsFunc(s, unicode.IsSpace) {
		if a, err := ParseAction(tok); err == nil {
			actions = append(actions, a)
			continue
		}
		for _, r := range tok {
			a, err := ParseKey(string(r))
			if err != nil {
				return nil, err
			}
			actions = append(actions, a)
		}
	}
	return actions, nil
}

// Apply performs a on e.
func Apply(e *calculator.Engine, a Action) {
	switch a.Kind {
	case Digit:
		e.EnterDigit(a.Digit)
	case Decimal:
		e.EnterDecimalPoint()
	case Operator:
		e.ChooseOperator(a.Operator)
	case Evaluate:
		e.Evaluate()
	case ClearAll:
		e.ClearAll()
	case ClearEntry:
		e.ClearEntry()
	case Backspace:
		e.DeleteLastCharacter()
	}
}
