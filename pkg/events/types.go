package events

import "encoding/json"

// Event name constants
const (
	KeyPressed     = "key.pressed"
	DisplayChanged = "display.changed"
)

// Event is a named event with a JSON payload.
type Event struct {
	Name string          // event name
	Data json.RawMessage // Raw JSON payload
}

// KeyPressedEvent is the typed payload for key.pressed. Label is the text of
// the calculator button that was triggered.
type KeyPressedEvent struct {
	Session string `json:"session,omitempty"`
	Label   string `json:"label"`
	Ts      int64  `json:"ts"`
}

// DisplayChangedEvent is the typed payload for display.changed.
type DisplayChangedEvent struct {
	Session string `json:"session,omitempty"`
	Display string `json:"display"`
	Ts      int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.KeyPressedEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Label)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
