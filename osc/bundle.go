package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

const bundleTagString = "#bundle"

// The shortest legal bundle: "#bundle\x00" plus an 8-byte timetag.
const minBundleSize = 16

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an OSC Bundle tagged for immediate processing.
func NewBundle(elems ...Packet) *Bundle {
	return &Bundle{Timetag: TimetagImmediate, Elements: elems}
}

// NewBundleWithTime returns an OSC Bundle tagged with the given time.
func NewBundleWithTime(time time.Time, elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time), Elements: elems}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return fmt.Errorf("unsupported OSC packet type: only Bundle and Message are supported")

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	writePaddedString(bundleTagString, data)

	var tt [bit64Size]byte
	binary.BigEndian.PutUint64(tt[:], uint64(b.Timetag))
	data.Write(tt[:])

	// Each element is preceded by its size
	for _, elem := range b.Elements {
		bb, err := elem.MarshalBinary()
		if err != nil {
			return nil, err
		}

		var size [bit32Size]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(bb)))
		data.Write(size[:])
		data.Write(bb)
	}

	if data.Len() > MaxPacketSize {
		return nil, fmt.Errorf("MarshalBinary: bundle too large: %d", data.Len())
	}

	out := make([]byte, data.Len())
	copy(out, data.Bytes())

	return out, nil
}

// NewBundleFromData returns a new OSC bundle created from the parsed data.
func NewBundleFromData(data []byte) (b *Bundle, err error) {
	d := make([]byte, len(data))
	copy(d, data)

	b = &Bundle{}
	if err = b.unmarshalBinary(d); err != nil {
		return nil, err
	}
	return b, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(d []byte) error {
	data := make([]byte, len(d))
	copy(data, d)

	return b.unmarshalBinary(data)
}

// unmarshalBinary is the actual implementation, it doesn't copy, so we can use
// a single copy for nested bundles.
func (b *Bundle) unmarshalBinary(data []byte) error {
	if (len(data) % bit32Size) != 0 {
		return fmt.Errorf("UnmarshalBinary: %w: bundle isn't padded properly", ErrMalformedPacket)
	}

	if len(data) < minBundleSize {
		return fmt.Errorf("UnmarshalBinary: %w: bundle is too short", ErrMalformedPacket)
	}

	// Read the '#bundle' OSC string
	startTag, n, err := parsePaddedSlice(data)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w: %v", ErrMalformedPacket, err)
	}
	data = data[n:]

	if startTag != bundleTagString {
		return fmt.Errorf("UnmarshalBinary: %w: invalid bundle start tag %q", ErrMalformedPacket, startTag)
	}

	b.Timetag = Timetag(binary.BigEndian.Uint64(data[:bit64Size]))
	data = data[bit64Size:]

	// Read size-prefixed elements until the end of the buffer
	for len(data) > 0 {
		if len(data) < bit32Size {
			return fmt.Errorf("UnmarshalBinary: %w: trailing bytes in bundle", ErrMalformedPacket)
		}
		length := int(binary.BigEndian.Uint32(data[:bit32Size]))
		data = data[bit32Size:]
		if length < 0 || len(data) < length {
			return fmt.Errorf("UnmarshalBinary: %w: invalid bundle element length %d", ErrMalformedPacket, length)
		}

		p, err := parsePacket(data[:length])
		if err != nil {
			return err
		}
		data = data[length:]
		b.Elements = append(b.Elements, p)
	}

	return nil
}

// parsePaddedSlice reads a padded string directly from a slice and returns the
// string and the number of bytes consumed.
func parsePaddedSlice(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, fmt.Errorf("parsePaddedSlice: missing null terminator")
	}

	return string(data[:pos]), pos + 1 + padBytesNeeded(pos+1), nil
}
