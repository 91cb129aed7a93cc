// Package handler provides the built-in OSC method set served by oscd and
// the in-memory parameter store fed by /control/param.
package handler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/soundctl/oscd/osc"
)

// The served address space. Matching is exact and case-sensitive.
const (
	AddrPing           = "/ping"
	AddrEcho           = "/echo"
	AddrInfo           = "/info"
	AddrMathAdd        = "/math/add"
	AddrAudioVolume    = "/audio/volume"
	AddrMidiNote       = "/midi/note"
	AddrControlParam   = "/control/param"
	AddrSystemShutdown = "/system/shutdown"
)

// Config carries the identity the /info method reports and the shutdown
// trigger wired to /system/shutdown.
type Config struct {
	Name    string
	Version string

	// Shutdown is invoked at most once, from its own goroutine so the
	// in-flight dispatch that carried /system/shutdown can drain.
	Shutdown func()
}

// Set is the built-in method set. Build one with New, register it on a
// dispatcher with Register, and leave it alone afterwards; only the parameter
// store mutates after startup.
type Set struct {
	name    string
	version string

	shutdown     func()
	shutdownOnce sync.Once

	params *Params
}

// New returns a Set with the given configuration.
func New(cfg Config) *Set {
	name := cfg.Name
	if name == "" {
		name = "oscd"
	}
	return &Set{
		name:     name,
		version:  cfg.Version,
		shutdown: cfg.Shutdown,
		params:   newParams(),
	}
}

// Params returns the store fed by /control/param.
func (s *Set) Params() *Params {
	return s.params
}

// Register adds every built-in method to the dispatcher.
func (s *Set) Register(d *osc.Dispatcher) error {
	for addr, method := range map[string]osc.MethodFunc{
		AddrPing:           s.ping,
		AddrEcho:           s.echo,
		AddrInfo:           s.info,
		AddrMathAdd:        s.mathAdd,
		AddrAudioVolume:    s.audioVolume,
		AddrMidiNote:       s.midiNote,
		AddrControlParam:   s.controlParam,
		AddrSystemShutdown: s.systemShutdown,
	} {
		if err := d.AddMethodFunc(addr, method); err != nil {
			return fmt.Errorf("register %s: %w", addr, err)
		}
	}
	return nil
}

// ping acknowledges receipt. Arguments carry no meaning and are ignored.
func (s *Set) ping(_ *osc.Message) (*osc.Message, error) {
	return osc.NewMessage("/pong"), nil
}

// echo returns the arguments unchanged, whatever their types.
func (s *Set) echo(msg *osc.Message) (*osc.Message, error) {
	return osc.NewMessage(AddrEcho, msg.Arguments...), nil
}

// info reports the server identity and version.
func (s *Set) info(_ *osc.Message) (*osc.Message, error) {
	return osc.NewMessage(AddrInfo, s.name, s.version), nil
}

// mathAdd adds exactly two numeric arguments. The result keeps the input
// width: int+int stays int32, any float operand widens the sum to float32.
func (s *Set) mathAdd(msg *osc.Message) (*osc.Message, error) {
	if msg.CountArguments() != 2 {
		return nil, errors.New("expected two numeric arguments")
	}

	a, aInt := msg.Arguments[0].(int32)
	b, bInt := msg.Arguments[1].(int32)
	if aInt && bInt {
		return osc.NewMessage(AddrMathAdd, a+b), nil
	}

	x, ok := numericArg(msg.Arguments[0])
	if !ok {
		return nil, fmt.Errorf("argument 1 is not numeric: %T", msg.Arguments[0])
	}
	y, ok := numericArg(msg.Arguments[1])
	if !ok {
		return nil, fmt.Errorf("argument 2 is not numeric: %T", msg.Arguments[1])
	}

	return osc.NewMessage(AddrMathAdd, float32(x+y)), nil
}

// audioVolume sets the volume from a single numeric argument. Integers are
// coerced to float, and any value outside [0, 1] saturates instead of
// erroring: volume is a continuous control signal, not a structural argument.
func (s *Set) audioVolume(msg *osc.Message) (*osc.Message, error) {
	if msg.CountArguments() == 0 {
		return nil, errors.New("missing volume")
	}
	if msg.CountArguments() != 1 {
		return nil, errors.New("expected a single volume")
	}

	v, ok := numericArg(msg.Arguments[0])
	if !ok {
		return nil, fmt.Errorf("volume is not numeric: %T", msg.Arguments[0])
	}

	return osc.NewMessage(AddrAudioVolume, float32(clamp(v, 0, 1))), nil
}

// midiNote plays a note from exactly two numeric arguments. Floats truncate
// to integers and both values clamp into the MIDI range [0, 127].
func (s *Set) midiNote(msg *osc.Message) (*osc.Message, error) {
	if msg.CountArguments() != 2 {
		return nil, errors.New("expected note and velocity")
	}

	note, ok := numericArg(msg.Arguments[0])
	if !ok {
		return nil, fmt.Errorf("note is not numeric: %T", msg.Arguments[0])
	}
	velocity, ok := numericArg(msg.Arguments[1])
	if !ok {
		return nil, fmt.Errorf("velocity is not numeric: %T", msg.Arguments[1])
	}

	// Clamp before truncating so the conversion stays in int32 range.
	return osc.NewMessage(AddrMidiNote,
		int32(clamp(note, 0, 127)),
		int32(clamp(velocity, 0, 127)),
	), nil
}

// controlParam stores a named parameter update: (string name, numeric value).
func (s *Set) controlParam(msg *osc.Message) (*osc.Message, error) {
	if msg.CountArguments() != 2 {
		return nil, errors.New("expected parameter name and value")
	}

	name, ok := msg.Arguments[0].(string)
	if !ok {
		return nil, fmt.Errorf("parameter name is not a string: %T", msg.Arguments[0])
	}
	value, ok := numericArg(msg.Arguments[1])
	if !ok {
		return nil, fmt.Errorf("parameter value is not numeric: %T", msg.Arguments[1])
	}

	s.params.set(name, value)
	return nil, nil
}

// systemShutdown initiates orderly termination. The trigger runs async so the
// dispatch carrying this message can finish draining.
func (s *Set) systemShutdown(_ *osc.Message) (*osc.Message, error) {
	s.shutdownOnce.Do(func() {
		if s.shutdown != nil {
			go s.shutdown()
		}
	})
	return nil, nil
}

// numericArg widens the two numeric OSC argument types to float64. It is
// total over the codec's closed argument set: anything else reports false.
func numericArg(arg interface{}) (float64, bool) {
	switch v := arg.(type) {
	case int32:
		return float64(v), true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}

// clamp saturates v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Params is the in-memory store behind /control/param. Reads and writes may
// happen from concurrent dispatches.
type Params struct {
	mu     sync.RWMutex
	values map[string]float64
}

func newParams() *Params {
	return &Params{values: make(map[string]float64)}
}

func (p *Params) set(name string, value float64) {
	p.mu.Lock()
	p.values[name] = value
	p.mu.Unlock()
}

// Get returns the current value of a parameter.
func (p *Params) Get(name string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[name]
	return v, ok
}

// Len returns the number of stored parameters.
func (p *Params) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}

// Snapshot returns a copy of all stored parameters.
func (p *Params) Snapshot() map[string]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]float64, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
