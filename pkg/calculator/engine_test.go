package calculator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// press drives e with a compact key string: digits, '.', "+-*/", '=' to
// evaluate, 'C' clear all, 'E' clear entry and '<' backspace.
func press(e *Engine, keys string) {
	for i := 0; i < len(keys); i++ {
		k := keys[i]
		switch {
		case k >= '0' && k <= '9':
			e.EnterDigit(k)
		case k == '.':
			e.EnterDecimalPoint()
		case k == '=':
			e.Evaluate()
		case k == 'C':
			e.ClearAll()
		case k == 'E':
			e.ClearEntry()
		case k == '<':
			e.DeleteLastCharacter()
		default:
			op, err := ParseOperator(string(k))
			if err != nil {
				panic(err)
			}
			e.ChooseOperator(op)
		}
	}
}

func TestEngine_Display(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{name: "initial state", keys: "", want: "0"},
		{name: "digits concatenate", keys: "123", want: "123"},
		{name: "leading zeros collapse", keys: "005", want: "5"},
		{name: "single zero", keys: "000", want: "0"},
		{name: "decimal from empty", keys: ".", want: "0."},
		{name: "duplicate decimal ignored", keys: "..", want: "0."},
		{name: "decimal after digits", keys: "1.5.2", want: "1.52"},
		{name: "zero then decimal keeps zero", keys: "0.5", want: "0.5"},
		{name: "operator keeps first operand on display", keys: "5+", want: "5"},
		{name: "simple addition", keys: "5+3=", want: "8"},
		{name: "subtraction going negative", keys: "3-5=", want: "-2"},
		{name: "multiplication", keys: "6*7=", want: "42"},
		{name: "division", keys: "8/4=", want: "2"},
		{name: "chaining folds left to right", keys: "5+3+2=", want: "10"},
		{name: "chaining without precedence", keys: "2+3*4=", want: "20"},
		{name: "intermediate fold is displayed", keys: "5+3+", want: "8"},
		{name: "evaluate without second operand", keys: "5+=", want: "5"},
		{name: "evaluate with nothing pending", keys: "42=", want: "42"},
		{name: "divide by zero", keys: "7/0=", want: "Error"},
		{name: "divide by zero decimal", keys: "7/0.0=", want: "Error"},
		{name: "digit after error starts fresh", keys: "7/0=3", want: "3"},
		{name: "decimal after error starts fresh", keys: "7/0=.", want: "0."},
		{name: "floating point noise is rounded", keys: "0.1+0.2=", want: "0.3"},
		{name: "rounded to eight places", keys: "1/3=", want: "0.33333333"},
		{name: "two thirds", keys: "2/3=", want: "0.66666667"},
		{name: "digit after result starts fresh", keys: "5+3=9", want: "9"},
		{name: "operator after result continues", keys: "5+3=*2=", want: "16"},
		{name: "decimal after result starts fresh", keys: "5+3=.", want: "0."},
		{name: "operator without operand uses zero", keys: "+5=", want: "5"},
		{name: "second operator replaces the first", keys: "9+-4=", want: "5"},
		{name: "repeated operator does not fold", keys: "9++", want: "9"},
		{name: "trailing decimal operand", keys: "3.+1=", want: "4"},
		{name: "backspace", keys: "12<", want: "1"},
		{name: "backspace to empty", keys: "12<<", want: "0"},
		{name: "backspace on empty", keys: "12<<<", want: "0"},
		{name: "backspace on result", keys: "6*7=<", want: "4"},
		{name: "clear all", keys: "5+3C", want: "0"},
		{name: "clear all forgets operator", keys: "5+3C2=", want: "2"},
		{name: "clear entry keeps operator", keys: "9-4E2=", want: "7"},
		{name: "clear entry displays zero", keys: "9-4E", want: "0"},
		{name: "clear after error", keys: "7/0=C", want: "0"},
		{name: "negative zero normalised", keys: "3-5=*0=", want: "0"},
		{name: "large product", keys: "12345679*9=", want: "111111111"},
		{name: "huge product uses exponent", keys: "10000000000*10000000000*10=", want: "1e+21"},
		{name: "tiny quotient uses exponent", keys: "1/10000000=", want: "1e-7"},
		{name: "small quotient stays decimal", keys: "1/1000000=", want: "0.000001"},
		{name: "below rounding precision", keys: "1/1000000000=", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			press(e, tt.keys)
			if got := e.Display(); got != tt.want {
				t.Errorf("Display() after %q = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestEngine_EvaluateIncompleteIsNoop(t *testing.T) {
	e := New()
	press(e, "5+")
	before := e.State()

	e.Evaluate()

	if diff := cmp.Diff(before, e.State()); diff != "" {
		t.Errorf("Evaluate() changed state (-before +after):\n%s", diff)
	}
	if e.State().Operator != Add {
		t.Errorf("pending operator = %v, want %v", e.State().Operator, Add)
	}
	if got := e.Display(); got != "5" {
		t.Errorf("Display() = %q, want %q", got, "5")
	}
}

func TestEngine_OperatorAfterOperatorReplaces(t *testing.T) {
	e := New()
	press(e, "9+")

	e.ChooseOperator(Subtract)

	want := State{Current: "9", Previous: "9", Operator: Subtract, AwaitingFreshEntry: true}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Errorf("state after replacing the operator (-want +got):\n%s", diff)
	}
}

func TestEngine_DivideByZeroKeepsOperands(t *testing.T) {
	e := New()
	press(e, "7/0=")

	want := State{
		Current:            "0",
		Previous:           "7",
		Operator:           Divide,
		AwaitingFreshEntry: true,
		Err:                true,
	}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Errorf("state after division by zero (-want +got):\n%s", diff)
	}

	e.EnterDigit('3')
	want = State{Current: "3"}
	if diff := cmp.Diff(want, e.State()); diff != "" {
		t.Errorf("state after recovering (-want +got):\n%s", diff)
	}
}

func TestEngine_ChainedDivideByZero(t *testing.T) {
	e := New()
	press(e, "8/0+")

	if got := e.Display(); got != ErrorDisplay {
		t.Fatalf("Display() = %q, want %q", got, ErrorDisplay)
	}
	s := e.State()
	if s.Operator != Add || s.Previous != "0" || !s.AwaitingFreshEntry {
		t.Errorf("unexpected state after chained division by zero: %+v", s)
	}
}

func TestEngine_StateTransitions(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want State
	}{
		{
			name: "empty",
			want: State{},
		},
		{
			name: "entering first operand",
			keys: "12",
			want: State{Current: "12"},
		},
		{
			name: "operator chosen",
			keys: "12+",
			want: State{Current: "12", Previous: "12", Operator: Add, AwaitingFreshEntry: true},
		},
		{
			name: "entering second operand",
			keys: "12+3",
			want: State{Current: "3", Previous: "12", Operator: Add},
		},
		{
			name: "result",
			keys: "12+3=",
			want: State{Current: "15", AwaitingFreshEntry: true},
		},
		{
			name: "clear entry with pending operator",
			keys: "12+3E",
			want: State{Previous: "12", Operator: Add},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			press(e, tt.keys)
			if diff := cmp.Diff(tt.want, e.State()); diff != "" {
				t.Errorf("State() after %q (-want +got):\n%s", tt.keys, diff)
			}
		})
	}
}

func TestEngine_IgnoresNonDigits(t *testing.T) {
	e := New()
	e.EnterDigit('a')
	e.ChooseOperator(None)
	if diff := cmp.Diff(State{}, e.State()); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

func TestEngine_Independent(t *testing.T) {
	a, b := New(), New()
	press(a, "1+1=")
	press(b, "9")
	if a.Display() != "2" || b.Display() != "9" {
		t.Errorf("engines interfered: a=%q b=%q", a.Display(), b.Display())
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-2.5, "-2.5"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{-1.5e-7, "-1.5e-7"},
		{1e21, "1e+21"},
		{1.5e22, "1.5e+22"},
		{123456789012345680000, "123456789012345680000"},
	}
	for _, tt := range tests {
		if got := formatResult(tt.in); got != tt.want {
			t.Errorf("formatResult(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOperand(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"12.", 12},
		{"0.", 0},
		{"-", 0},
		{"-3", -3},
		{"1e+", 1},
		{"1e+21", 1e21},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseOperand(tt.in); got != tt.want {
			t.Errorf("parseOperand(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
