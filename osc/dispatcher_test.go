package osc

import (
	"errors"
	"fmt"
	"testing"
)

func TestDispatcher_AddMethodFunc(t *testing.T) {
	type args struct {
		addr   string
		method MethodFunc
	}
	tests := []struct {
		name    string
		methods map[string]Method
		args    args
		wantErr bool
	}{
		{"valid", nil, args{"/address/test", func(_ *Message) (*Message, error) { return nil, nil }}, false},
		{"no_leading_slash", nil, args{"address/test", func(_ *Message) (*Message, error) { return nil, nil }}, true},
		{"wildcard_chars", nil, args{"/address*/test", func(_ *Message) (*Message, error) { return nil, nil }}, true},
		{"already_exists", map[string]Method{"/address/test": MethodFunc(func(_ *Message) (*Message, error) { return nil, nil })}, args{"/address/test", func(_ *Message) (*Message, error) { return nil, nil }}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dispatcher{
				methods: tt.methods,
			}
			if err := d.AddMethodFunc(tt.args.addr, tt.args.method); (err != nil) != tt.wantErr {
				t.Errorf("AddMethodFunc() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d := &Dispatcher{}
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}

	must(d.AddMethodFunc("/echo", func(msg *Message) (*Message, error) {
		return NewMessage(msg.Address, msg.Arguments...), nil
	}))
	must(d.AddMethodFunc("/silent", func(_ *Message) (*Message, error) {
		return nil, nil
	}))
	must(d.AddMethodFunc("/reject", func(_ *Message) (*Message, error) {
		return nil, fmt.Errorf("no thanks")
	}))
	must(d.AddMethodFunc("/explode", func(_ *Message) (*Message, error) {
		panic("boom")
	}))
	return d
}

func TestDispatcher_Dispatch(t *testing.T) {
	d := newTestDispatcher(t)

	reply, err := d.Dispatch(NewMessage("/echo", int32(42)))
	if err != nil {
		t.Fatalf("Dispatch(/echo): %v", err)
	}
	if reply == nil || reply.CountArguments() != 1 || reply.Arguments[0].(int32) != 42 {
		t.Errorf("Dispatch(/echo) reply = %v", reply)
	}

	reply, err = d.Dispatch(NewMessage("/silent"))
	if err != nil || reply != nil {
		t.Errorf("Dispatch(/silent) = %v, %v; want nil, nil", reply, err)
	}
}

func TestDispatcher_DispatchUnknownAddress(t *testing.T) {
	d := newTestDispatcher(t)

	if _, err := d.Dispatch(NewMessage("/unknown/address")); !errors.Is(err, ErrUnknownAddress) {
		t.Errorf("Dispatch(/unknown/address) error = %v, want ErrUnknownAddress", err)
	}

	// Matching is exact and case-sensitive.
	if _, err := d.Dispatch(NewMessage("/Echo")); !errors.Is(err, ErrUnknownAddress) {
		t.Errorf("Dispatch(/Echo) error = %v, want ErrUnknownAddress", err)
	}
	if _, err := d.Dispatch(NewMessage("/echo/x")); !errors.Is(err, ErrUnknownAddress) {
		t.Errorf("Dispatch(/echo/x) error = %v, want ErrUnknownAddress", err)
	}
}

func TestDispatcher_DispatchHandlerError(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.Dispatch(NewMessage("/reject"))
	var herr *HandlerError
	if !errors.As(err, &herr) {
		t.Fatalf("Dispatch(/reject) error = %T, want *HandlerError", err)
	}
	if herr.Addr != "/reject" || herr.Reason != "no thanks" {
		t.Errorf("HandlerError = %+v", herr)
	}
}

func TestDispatcher_DispatchRecoversPanic(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.Dispatch(NewMessage("/explode"))
	var herr *HandlerError
	if !errors.As(err, &herr) {
		t.Fatalf("Dispatch(/explode) error = %T, want *HandlerError", err)
	}

	// The dispatcher must stay usable after a panic.
	if _, err := d.Dispatch(NewMessage("/silent")); err != nil {
		t.Errorf("Dispatch(/silent) after panic: %v", err)
	}
}
