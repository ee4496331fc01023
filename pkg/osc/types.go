package osc

import "errors"

// Single OSC message. Arguments hold int32, int64, float32, float64, string,
// Symbol, []byte, bool, nil, Timetag, Impulse, Char, RGBA or MIDI values.
type Message struct {
	Address   string
	Arguments []any
}

// Container of messages and nested bundles sharing one timetag
type Bundle struct {
	Timetag  Timetag
	Messages []Message
	Bundles  []Bundle
}

// NTP format time: upper 32 bits seconds since 1900, lower 32 bits fraction
type Timetag uint64

// String kept apart from plain strings (type tag S)
type Symbol string

// Argument carrying no data (type tag I)
type Impulse struct{}

// 32-bit ASCII character (type tag c)
type Char rune

// 32-bit RGBA color (type tag r)
type RGBA uint32

// MIDI message: port id, status byte, data1, data2 (type tag m)
type MIDI [4]byte

const (
	bundleTag = "#bundle"

	// Special timetag meaning "now"
	TimetagImmediate Timetag = 1
)

var (
	ErrMalformed   = errors.New("malformed osc packet")
	ErrUnsupported = errors.New("unsupported osc argument")
)
