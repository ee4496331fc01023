package osc

import (
	"fmt"
	"strings"
)

// Creates a message from an address and arguments
func NewMessage(address string, args ...any) (msg Message) {
	msg = Message{
		Address:   address,
		Arguments: append([]any(nil), args...),
	}
	return
}

// Copy with its own argument slice; blobs are shared
func (msg Message) Clone() (clone Message) {
	clone = Message{
		Address:   msg.Address,
		Arguments: append([]any(nil), msg.Arguments...),
	}
	return
}

// Approximate in-memory size, used for queue accounting
func (msg Message) Size() (size int) {
	size = len(msg.Address)
	for _, arg := range msg.Arguments {
		switch value := arg.(type) {
		case string:
			size += len(value)
		case Symbol:
			size += len(value)
		case []byte:
			size += len(value)
		case int64, float64, Timetag:
			size += 8
		default:
			size += 4
		}
	}
	return
}

// Human readable form: address followed by arguments
func (msg Message) String() (text string) {
	parts := make([]string, 0, len(msg.Arguments))
	for _, arg := range msg.Arguments {
		switch value := arg.(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%q", value))
		case []byte:
			parts = append(parts, fmt.Sprintf("blob(%d)", len(value)))
		case nil:
			parts = append(parts, "nil")
		default:
			parts = append(parts, fmt.Sprintf("%v", value))
		}
	}
	text = msg.Address + " [" + strings.Join(parts, " ") + "]"
	return
}
