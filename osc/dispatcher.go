package osc

import (
	"errors"
	"fmt"
	"strings"
)

// Method is an interface for OSC Methods. A Method handles a single OSC
// Message and may return a reply Message for the server to send back to the
// source of the datagram. A nil reply means nothing is sent.
type Method interface {
	HandleMessage(msg *Message) (*Message, error)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message) (*Message, error)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) (*Message, error) {
	return f(msg)
}

// ErrUnknownAddress is returned by Dispatch when no Method is registered for
// the address of a Message.
var ErrUnknownAddress = errors.New("unknown address")

// HandlerError reports that a registered Method rejected or failed on a
// Message. It is never fatal to the serve loop.
type HandlerError struct {
	Addr   string
	Reason string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s: %s", e.Addr, e.Reason)
}

// Dispatcher routes received OSC Messages to Methods by exact, case-sensitive
// address match. The method table is built once at startup; it is not safe to
// add Methods while Dispatch is being called, and never necessary.
type Dispatcher struct {
	methods map[string]Method
}

// AddMethod adds a new OSC Method for the given OSC address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if len(addr) == 0 || addr[0] != '/' {
		return fmt.Errorf("AddMethod: OSC address must begin with '/'")
	}

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: OSC address may not contain any characters in \"*?,[]{}# \"")
	}

	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: OSC address %s exists already", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch routes the Message to its Method and returns the Method's reply,
// if any. It returns ErrUnknownAddress when no Method is registered for the
// address, and a *HandlerError when the Method rejects the Message, fails, or
// panics. It never panics itself.
func (d *Dispatcher) Dispatch(msg *Message) (reply *Message, err error) {
	method, ok := d.methods[msg.Address]
	if !ok {
		return nil, fmt.Errorf("dispatch %s: %w", msg.Address, ErrUnknownAddress)
	}

	defer func() {
		if r := recover(); r != nil {
			reply = nil
			err = &HandlerError{Addr: msg.Address, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()

	reply, herr := method.HandleMessage(msg)
	if herr != nil {
		return nil, &HandlerError{Addr: msg.Address, Reason: herr.Error()}
	}

	return reply, nil
}
