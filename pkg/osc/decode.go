package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Maximum bundle nesting accepted by Parse
const maxBundleDepth = 8

// Decodes a datagram into its messages. Bundles are flattened depth-first in wire order.
func Parse(data []byte) (messages []Message, err error) {
	messages, err = parsePacket(data, 0)
	return
}

func parsePacket(data []byte, depth int) (messages []Message, err error) {
	if len(data) == 0 {
		err = fmt.Errorf("%w: empty packet", ErrMalformed)
		return
	}

	switch data[0] {
	case '/':
		var msg Message
		msg, err = parseMessage(data)
		if err != nil {
			return
		}
		messages = []Message{msg}
	case '#':
		if depth >= maxBundleDepth {
			err = fmt.Errorf("%w: bundles nested deeper than %d", ErrMalformed, maxBundleDepth)
			return
		}
		messages, err = parseBundle(data, depth)
	default:
		err = fmt.Errorf("%w: packet starts with 0x%02x", ErrMalformed, data[0])
	}
	return
}

func parseBundle(data []byte, depth int) (messages []Message, err error) {
	reader := &wireReader{data: data}

	tag, err := reader.paddedString()
	if err != nil {
		return
	}
	if tag != bundleTag {
		err = fmt.Errorf("%w: invalid bundle tag %q", ErrMalformed, tag)
		return
	}
	if _, err = reader.uint64(); err != nil { // timetag, delivery is immediate
		return
	}

	for reader.remaining() > 0 {
		var size uint32
		size, err = reader.uint32()
		if err != nil {
			return
		}

		var element []byte
		element, err = reader.take(int(size))
		if err != nil {
			return
		}

		var inner []Message
		inner, err = parsePacket(element, depth+1)
		if err != nil {
			return
		}
		messages = append(messages, inner...)
	}
	return
}

func parseMessage(data []byte) (msg Message, err error) {
	reader := &wireReader{data: data}

	msg.Address, err = reader.paddedString()
	if err != nil {
		err = fmt.Errorf("failed to read address: %w", err)
		return
	}

	// Type tag string is optional for very old senders
	if reader.remaining() == 0 {
		return
	}

	tags, err := reader.paddedString()
	if err != nil {
		err = fmt.Errorf("failed to read type tags: %w", err)
		return
	}
	if len(tags) == 0 || tags[0] != ',' {
		err = fmt.Errorf("%w: type tags %q missing leading comma", ErrMalformed, tags)
		return
	}

	msg.Arguments = make([]any, 0, len(tags)-1)
	for _, tag := range []byte(tags[1:]) {
		var arg any
		arg, err = reader.argument(tag)
		if err != nil {
			return
		}
		msg.Arguments = append(msg.Arguments, arg)
	}
	return
}

// Sequential reader over a datagram
type wireReader struct {
	data   []byte
	offset int
}

func (reader *wireReader) remaining() (n int) {
	n = len(reader.data) - reader.offset
	return
}

func (reader *wireReader) take(length int) (chunk []byte, err error) {
	if length < 0 || length > reader.remaining() {
		err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrMalformed, length, reader.offset, reader.remaining())
		return
	}
	chunk = reader.data[reader.offset : reader.offset+length]
	reader.offset += length
	return
}

func (reader *wireReader) uint32() (value uint32, err error) {
	raw, err := reader.take(4)
	if err != nil {
		return
	}
	value = binary.BigEndian.Uint32(raw)
	return
}

func (reader *wireReader) uint64() (value uint64, err error) {
	raw, err := reader.take(8)
	if err != nil {
		return
	}
	value = binary.BigEndian.Uint64(raw)
	return
}

func (reader *wireReader) paddedString() (text string, err error) {
	rest := reader.data[reader.offset:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		err = fmt.Errorf("%w: unterminated string at offset %d", ErrMalformed, reader.offset)
		return
	}

	// String, its terminator, then padding to the 4 byte boundary
	total := end + 1 + padding(end+1)
	if total > len(rest) {
		total = len(rest) // tolerate missing trailing padding
	}
	text = string(rest[:end])
	reader.offset += total
	return
}

func (reader *wireReader) blob() (blob []byte, err error) {
	size, err := reader.uint32()
	if err != nil {
		return
	}
	raw, err := reader.take(int(size))
	if err != nil {
		return
	}
	blob = make([]byte, len(raw))
	copy(blob, raw)

	pad := padding(int(size))
	if pad > reader.remaining() {
		pad = reader.remaining()
	}
	reader.offset += pad
	return
}

func (reader *wireReader) argument(tag byte) (arg any, err error) {
	var raw32 uint32
	var raw64 uint64

	switch tag {
	case 'i':
		raw32, err = reader.uint32()
		arg = int32(raw32)
	case 'h':
		raw64, err = reader.uint64()
		arg = int64(raw64)
	case 'f':
		raw32, err = reader.uint32()
		arg = math.Float32frombits(raw32)
	case 'd':
		raw64, err = reader.uint64()
		arg = math.Float64frombits(raw64)
	case 's':
		arg, err = reader.paddedString()
	case 'S':
		var text string
		text, err = reader.paddedString()
		arg = Symbol(text)
	case 'b':
		arg, err = reader.blob()
	case 'T':
		arg = true
	case 'F':
		arg = false
	case 'N':
		arg = nil
	case 'I':
		arg = Impulse{}
	case 't':
		raw64, err = reader.uint64()
		arg = Timetag(raw64)
	case 'c':
		raw32, err = reader.uint32()
		arg = Char(raw32)
	case 'r':
		raw32, err = reader.uint32()
		arg = RGBA(raw32)
	case 'm':
		var raw []byte
		raw, err = reader.take(4)
		if err == nil {
			arg = MIDI{raw[0], raw[1], raw[2], raw[3]}
		}
	default:
		err = fmt.Errorf("%w: type tag %q", ErrUnsupported, tag)
	}
	if err != nil {
		arg = nil
	}
	return
}
