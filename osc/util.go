package osc

import (
	"bytes"
	"sync"
)

////
// Utility and helper functions
////

const (
	// MaxPacketSize is the largest UDP payload the server will read or write.
	MaxPacketSize = 65507

	bit32Size = 4
	bit64Size = 8
)

var (
	bufPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, MaxPacketSize))
		},
	}
	bPool = sync.Pool{
		New: func() interface{} {
			b := make([]byte, MaxPacketSize)
			return &b
		},
	}
)
