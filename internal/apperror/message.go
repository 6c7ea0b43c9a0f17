package apperror

import (
	"encoding/json"
	"strings"
)

// Message is a human-facing error message. It is either a single string or a
// list of strings (one per failed field, for example).
type Message struct {
	text string
	list []string
}

// Text returns a single-string message.
func Text(s string) Message {
	return Message{text: s}
}

// List returns a list message. The slice is copied.
func List(items ...string) Message {
	return Message{list: append([]string{}, items...)}
}

// IsList reports whether the message is a list.
func (m Message) IsList() bool {
	return m.list != nil
}

// IsZero reports whether the message carries no text at all.
func (m Message) IsZero() bool {
	return m.text == "" && len(m.list) == 0
}

// Items returns the list entries, or a one-element slice for a text message.
func (m Message) Items() []string {
	if m.IsList() {
		return append([]string{}, m.list...)
	}
	return []string{m.text}
}

// String returns the message on one line; list entries are joined by ", ".
func (m Message) String() string {
	if m.IsList() {
		return strings.Join(m.list, ", ")
	}
	return m.text
}

// MarshalJSON encodes a text message as a JSON string and a list as an array.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.IsList() {
		return json.Marshal(m.list)
	}
	return json.Marshal(m.text)
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (m *Message) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*m = List(list...)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*m = Text(text)
	return nil
}
