// Package calculator implements the input state machine of a pocket
// calculator: digits, decimal point, four binary operators, equals, clear
// and backspace, evaluated left to right without precedence.
//
// An Engine is not safe for concurrent use. Callers sharing one engine must
// serialize their calls.
package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// ErrorDisplay is shown after a division by zero.
	ErrorDisplay = "Error"
	// ZeroDisplay is shown when no digits have been entered.
	ZeroDisplay = "0"

	// Results are rounded to this many decimal places.
	precision = 1e8
)

// State is a snapshot of everything an Engine knows.
type State struct {
	Current            string   `json:"current"`
	Previous           string   `json:"previous"`
	Operator           Operator `json:"operator"`
	AwaitingFreshEntry bool     `json:"awaitingFreshEntry"`
	Err                bool     `json:"error"`
}

// Engine turns a sequence of calculator key presses into a display value.
type Engine struct {
	s      State
	logger logrus.FieldLogger
}

// New returns an engine in its initial state, displaying "0".
func New() *Engine {
	return &Engine{
		logger: logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger used for per-action trace logs.
func (e *Engine) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	e.logger = l
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.s
}

// Display returns the text that should be shown to the user right now.
func (e *Engine) Display() string {
	if e.s.Err {
		return ErrorDisplay
	}
	if e.s.Current == "" {
		return ZeroDisplay
	}
	return e.s.Current
}

// EnterDigit appends d ('0'..'9') to the operand being typed.
func (e *Engine) EnterDigit(d byte) {
	if d < '0' || d > '9' {
		return
	}
	e.beginEntry()

	if e.s.Current == "0" {
		e.s.Current = string(d)
	} else {
		e.s.Current += string(d)
	}
	e.trace("digit")
}

// EnterDecimalPoint adds a decimal point unless the operand already has one.
func (e *Engine) EnterDecimalPoint() {
	e.beginEntry()

	if e.s.Current == "" {
		e.s.Current = "0."
	} else if !strings.Contains(e.s.Current, ".") {
		e.s.Current += "."
	}
	e.trace("decimal")
}

// ChooseOperator makes op the pending operation. When a complete operation
// is already pending it is evaluated first, so "5 + 3 + 2 =" gives 10.
func (e *Engine) ChooseOperator(op Operator) {
	if op == None {
		return
	}
	e.s.Err = false

	if e.pending() {
		e.Evaluate()
	}

	if e.s.Current != "" {
		e.s.Previous = e.s.Current
	} else {
		e.s.Previous = ZeroDisplay
	}
	e.s.Operator = op
	e.s.AwaitingFreshEntry = true
	e.trace("operator")
}

// Evaluate applies the pending operator. Without a complete pending
// operation it does nothing. Dividing by zero leaves the operands alone and
// displays "Error" until the next action.
func (e *Engine) Evaluate() {
	if !e.pending() {
		return
	}
	e.s.Err = false

	prev := parseOperand(e.s.Previous)
	cur := parseOperand(e.s.Current)

	result, err := e.s.Operator.Apply(prev, cur)
	if err != nil {
		e.s.Err = true
		e.s.AwaitingFreshEntry = true
		e.logger.WithFields(logrus.Fields{
			"previous": e.s.Previous,
			"operator": e.s.Operator.Name(),
			"current":  e.s.Current,
		}).Debugf("evaluation failed: %v", err)
		return
	}

	e.s.Current = formatResult(round(result))
	e.s.Previous = ""
	e.s.Operator = None
	e.s.AwaitingFreshEntry = true
	e.trace("evaluate")
}

// ClearAll resets the engine to its initial state.
func (e *Engine) ClearAll() {
	e.s = State{}
	e.trace("clear")
}

// ClearEntry clears the operand being typed and keeps any pending operation.
func (e *Engine) ClearEntry() {
	e.s.Err = false
	e.s.Current = ""
	e.trace("clear-entry")
}

// DeleteLastCharacter removes the last character of the operand being typed.
func (e *Engine) DeleteLastCharacter() {
	e.s.Err = false
	if e.s.Current != "" {
		e.s.Current = e.s.Current[:len(e.s.Current)-1]
	}
	e.trace("backspace")
}

// pending reports whether a second operand has been typed for the pending
// operator. Right after an operator the displayed operand is still the first
// one and does not count.
func (e *Engine) pending() bool {
	return e.s.Previous != "" && e.s.Current != "" && e.s.Operator != None && !e.s.AwaitingFreshEntry
}

// beginEntry prepares for a digit or decimal point. After an error the
// operands are discarded and entry starts from scratch.
func (e *Engine) beginEntry() {
	if e.s.Err {
		e.s = State{}
		return
	}
	if e.s.AwaitingFreshEntry {
		e.s.Current = ""
		e.s.AwaitingFreshEntry = false
	}
}

func (e *Engine) trace(action string) {
	e.logger.WithFields(logrus.Fields{
		"action":   action,
		"current":  e.s.Current,
		"previous": e.s.Previous,
		"operator": e.s.Operator.Name(),
		"fresh":    e.s.AwaitingFreshEntry,
	}).Trace("calculator action")
}

func round(v float64) float64 {
	if math.Abs(v) >= 1e15 || math.IsNaN(v) {
		// no fractional digits left to round
		return v
	}
	r := math.Round(v*precision) / precision
	if r == 0 {
		// drop the sign of -0
		return 0
	}
	return r
}

// formatResult prints v the way the display expects: plain decimals, with
// an exponent for magnitudes of at least 1e21 or below 1e-6.
func formatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v != 0 && (math.Abs(v) >= 1e21 || math.Abs(v) < 1e-6):
		return shortExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// shortExponent drops leading zeros from the exponent: "1e-07" becomes "1e-7".
func shortExponent(s string) string {
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok || exp == "" {
		return s
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// parseOperand reads a possibly half-typed operand. Trailing characters that
// cannot end a number ("12.", "1e+", "-") are ignored, and anything that
// still fails to parse counts as zero.
func parseOperand(s string) float64 {
	s = strings.TrimRight(s, ".eE+-")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}
