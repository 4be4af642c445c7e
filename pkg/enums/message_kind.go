package enums

import "fmt"

// MessageKind classifies conversation messages.
type MessageKind string

const (
	MessageKindText                 MessageKind = "text"
	MessageKindSystem               MessageKind = "system"
	MessageKindDeliveryConfirmation MessageKind = "delivery_confirmation"
)

var validMessageKinds = []MessageKind{
	MessageKindText,
	MessageKindSystem,
	MessageKindDeliveryConfirmation,
}

// IsValid reports whether the value is a known MessageKind.
func (m MessageKind) IsValid() bool {
	for _, candidate := range validMessageKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMessageKind converts raw input into a MessageKind.
func ParseMessageKind(value string) (MessageKind, error) {
	for _, candidate := range validMessageKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid message kind %q", value)
}
