package osc

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
}

// ErrMalformedPacket is wrapped by every parse error. A datagram that fails
// with it must be discarded, never crash the receiver.
var ErrMalformedPacket = errors.New("malformed packet")

var bundleTag = []byte(bundleTagString)

// ParsePacket parses a raw datagram into a Message or a Bundle.
func ParsePacket(data []byte) (Packet, error) {
	d := make([]byte, len(data))
	copy(d, data)
	return parsePacket(d)
}

// parsePacket assumes the bytes have already been copied.
func parsePacket(data []byte) (Packet, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("parsePacket: %w: empty datagram", ErrMalformedPacket)
	}
	if len(data) > MaxPacketSize {
		return nil, fmt.Errorf("parsePacket: %w: datagram too large: %d", ErrMalformedPacket, len(data))
	}

	switch {
	case data[0] == '/':
		m := &Message{}
		if err := m.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return m, nil

	case bytes.HasPrefix(data, bundleTag):
		b := &Bundle{}
		if err := b.unmarshalBinary(data); err != nil {
			return nil, err
		}
		return b, nil

	default:
		return nil, fmt.Errorf("parsePacket: %w: not an OSC message or bundle", ErrMalformedPacket)
	}
}
