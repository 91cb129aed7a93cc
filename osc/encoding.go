package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

////
// De/Encoding functions
////

// readPaddedString reads a null-terminated, 4-byte-padded string from the
// buffer and returns the string and the number of bytes consumed.
func readPaddedString(reader *bytes.Buffer) (string, int, error) {
	str, err := reader.ReadString(0)
	if err != nil {
		return "", 0, io.EOF
	}

	// Remove the padding bytes
	n := len(str) + padBytesNeeded(len(str))
	reader.Next(padBytesNeeded(len(str)))
	str = str[:len(str)-1]

	return str, n, nil
}

// writePaddedString writes a string with null termination and padding bytes
// to the buffer. Returns the number of written bytes.
func writePaddedString(str string, buf *bytes.Buffer) int {
	buf.WriteString(str)
	buf.WriteByte(0)

	n := len(str) + 1
	for i := 0; i < padBytesNeeded(n); i++ {
		buf.WriteByte(0)
	}

	return n + padBytesNeeded(n)
}

// readBlob reads an OSC blob (4-byte length prefix followed by padded data)
// from the buffer. Padding bytes are consumed and not returned.
func readBlob(reader *bytes.Buffer) ([]byte, int, error) {
	if reader.Len() < bit32Size {
		return nil, 0, io.EOF
	}

	blobLen := int(binary.BigEndian.Uint32(reader.Next(bit32Size)))
	if blobLen < 0 || blobLen > reader.Len() {
		return nil, 0, fmt.Errorf("readBlob: invalid blob length %d", blobLen)
	}

	blob := make([]byte, blobLen)
	copy(blob, reader.Next(blobLen))
	reader.Next(padBytesNeeded(blobLen))

	return blob, bit32Size + blobLen + padBytesNeeded(blobLen), nil
}

// writeBlob writes the data byte array as an OSC blob into the buffer. If the
// length of data isn't 32-bit aligned, padding bytes will be added.
func writeBlob(data []byte, buf *bytes.Buffer) (int, error) {
	if len(data) > MaxPacketSize {
		return 0, fmt.Errorf("writeBlob: blob too large: %d", len(data))
	}

	var lenPrefix [bit32Size]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(data)))
	buf.Write(lenPrefix[:])
	buf.Write(data)

	for i := 0; i < padBytesNeeded(len(data)); i++ {
		buf.WriteByte(0)
	}

	return bit32Size + len(data) + padBytesNeeded(len(data)), nil
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
