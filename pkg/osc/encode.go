package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Serializes message to OSC 1.0 wire format
func (msg Message) MarshalBinary() (payload []byte, err error) {
	var buf bytes.Buffer
	err = msg.writeTo(&buf)
	if err != nil {
		return
	}
	payload = buf.Bytes()
	return
}

// Serializes bundle (including nested bundles) to OSC 1.0 wire format
func (bundle Bundle) MarshalBinary() (payload []byte, err error) {
	var buf bytes.Buffer

	writePaddedString(&buf, bundleTag)
	if err = binary.Write(&buf, binary.BigEndian, uint64(bundle.Timetag)); err != nil {
		err = fmt.Errorf("failed to serialize bundle timetag: %v", err)
		return
	}

	var element []byte
	for _, msg := range bundle.Messages {
		element, err = msg.MarshalBinary()
		if err != nil {
			return
		}
		writeElement(&buf, element)
	}
	for _, nested := range bundle.Bundles {
		element, err = nested.MarshalBinary()
		if err != nil {
			return
		}
		writeElement(&buf, element)
	}

	payload = buf.Bytes()
	return
}

func (msg Message) writeTo(buf *bytes.Buffer) (err error) {
	if msg.Address == "" {
		err = fmt.Errorf("%w: empty address", ErrMalformed)
		return
	}

	tags := make([]byte, 0, len(msg.Arguments)+1)
	tags = append(tags, ',')

	var body bytes.Buffer
	for index, arg := range msg.Arguments {
		var tag byte
		tag, err = writeArgument(&body, arg)
		if err != nil {
			err = fmt.Errorf("argument %d: %w", index, err)
			return
		}
		tags = append(tags, tag)
	}

	writePaddedString(buf, msg.Address)
	writePaddedString(buf, string(tags))
	buf.Write(body.Bytes())
	return
}

// Writes argument data (if any) and returns its type tag
func writeArgument(buf *bytes.Buffer, arg any) (tag byte, err error) {
	switch value := arg.(type) {
	case int32:
		tag = 'i'
		writeUint32(buf, uint32(value))
	case int:
		if value < math.MinInt32 || value > math.MaxInt32 {
			tag = 'h'
			writeUint64(buf, uint64(value))
		} else {
			tag = 'i'
			writeUint32(buf, uint32(int32(value)))
		}
	case int64:
		tag = 'h'
		writeUint64(buf, uint64(value))
	case float32:
		tag = 'f'
		writeUint32(buf, math.Float32bits(value))
	case float64:
		tag = 'd'
		writeUint64(buf, math.Float64bits(value))
	case string:
		tag = 's'
		writePaddedString(buf, value)
	case Symbol:
		tag = 'S'
		writePaddedString(buf, string(value))
	case []byte:
		tag = 'b'
		writeUint32(buf, uint32(len(value)))
		buf.Write(value)
		buf.Write(make([]byte, padding(len(value))))
	case bool:
		tag = 'F'
		if value {
			tag = 'T'
		}
	case nil:
		tag = 'N'
	case Impulse:
		tag = 'I'
	case Timetag:
		tag = 't'
		writeUint64(buf, uint64(value))
	case Char:
		tag = 'c'
		writeUint32(buf, uint32(value))
	case RGBA:
		tag = 'r'
		writeUint32(buf, uint32(value))
	case MIDI:
		tag = 'm'
		buf.Write(value[:])
	default:
		err = fmt.Errorf("%w: type %T", ErrUnsupported, arg)
	}
	return
}

// Null terminated, zero padded to a 4 byte boundary
func writePaddedString(buf *bytes.Buffer, text string) {
	buf.WriteString(text)
	buf.Write(make([]byte, 4-len(text)%4))
}

func writeElement(buf *bytes.Buffer, element []byte) {
	writeUint32(buf, uint32(len(element)))
	buf.Write(element)
}

func writeUint32(buf *bytes.Buffer, value uint32) {
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], value)
	buf.Write(raw[:])
}

func writeUint64(buf *bytes.Buffer, value uint64) {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], value)
	buf.Write(raw[:])
}

// Bytes needed to reach next 4 byte boundary
func padding(length int) (pad int) {
	pad = (4 - length%4) % 4
	return
}
