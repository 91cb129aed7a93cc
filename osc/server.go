package osc

import (
	"errors"
	"fmt"
	"log"
	"net"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ErrServerClosed is returned by Serve and ListenAndServe after a call to
// Shutdown or Close.
var ErrServerClosed = errors.New("osc: server closed")

// Server represents an OSC server. The server listens on Addr for incoming
// OSC packets and dispatches them through Dispatcher. Replies returned by
// Methods are sent back to the source address of the datagram fire-and-forget;
// the serve loop never blocks on delivery or waits for acknowledgment.
type Server struct {
	Addr        string
	Dispatcher  *Dispatcher
	ReadTimeout time.Duration

	// ErrorLog is used for malformed packets, unknown addresses and handler
	// errors. If nil, logging goes via the log package's standard logger.
	ErrorLog *log.Logger

	mu         sync.Mutex
	conn       net.PacketConn
	done       chan struct{}
	inShutdown atomic.Bool
	inflight   sync.WaitGroup
}

// ListenAndServe binds a UDP socket on s.Addr and serves incoming OSC packets.
// A bind failure is returned immediately, it is the only fatal error class.
func (s *Server) ListenAndServe() error {
	if s.Dispatcher == nil {
		s.Dispatcher = &Dispatcher{}
	}

	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return fmt.Errorf("ListenAndServe: %w", err)
	}

	return s.Serve(ln)
}

// Serve retrieves incoming OSC packets from the given connection and
// dispatches them. Malformed datagrams are logged and dropped, they never
// terminate the loop. Serve returns ErrServerClosed after Shutdown or Close.
func (s *Server) Serve(c net.PacketConn) error {
	if s.Dispatcher == nil {
		s.Dispatcher = &Dispatcher{}
	}

	s.mu.Lock()
	s.conn = c
	s.mu.Unlock()

	var tempDelay time.Duration
	for {
		packet, addr, err := s.readFromConnection(c)
		if err != nil {
			if s.shuttingDown() {
				return ErrServerClosed
			}

			var ne net.Error
			if errors.As(err, &ne) {
				// The socket is gone for good, nothing more can be read.
				if errors.Is(err, net.ErrClosed) {
					return err
				}
				if !ne.Timeout() {
					s.logf("osc: read: %v", err)
				}
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				time.Sleep(tempDelay)
				continue
			}

			s.logf("osc: dropping packet from %v: %v", addr, err)
			continue
		}
		tempDelay = 0

		if !s.addInflight() {
			return ErrServerClosed
		}
		go s.serve(packet, addr)
	}
}

// Shutdown stops the server gracefully: no new datagrams are accepted, but
// dispatches already in flight are allowed to finish before the socket is
// released. Bundles still waiting on a future timetag are dropped, not run.
// Safe to call from a Method.
func (s *Server) Shutdown() error {
	err := s.closeConn()
	s.inflight.Wait()
	return err
}

// Close stops the server immediately without draining in-flight dispatches.
func (s *Server) Close() error {
	return s.closeConn()
}

func (s *Server) closeConn() error {
	s.mu.Lock()
	if !s.inShutdown.Swap(true) {
		close(s.doneLocked())
	}
	c := s.conn
	s.conn = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

func (s *Server) shuttingDown() bool {
	return s.inShutdown.Load()
}

// doneLocked lazily creates the shutdown signal channel. s.mu must be held.
func (s *Server) doneLocked() chan struct{} {
	if s.done == nil {
		s.done = make(chan struct{})
	}
	return s.done
}

func (s *Server) doneChan() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneLocked()
}

// addInflight registers a dispatch with the drain accounting. It reports
// false once shutdown has begun, so Shutdown's Wait never races a new Add.
func (s *Server) addInflight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inShutdown.Load() {
		return false
	}
	s.inflight.Add(1)
	return true
}

// WriteTo sends an OSC Packet to the given address over the server's socket.
func (s *Server) WriteTo(p Packet, addr net.Addr) (int, error) {
	s.mu.Lock()
	c := s.conn
	s.mu.Unlock()

	if c == nil {
		return 0, ErrServerClosed
	}

	data, err := p.MarshalBinary()
	if err != nil {
		return 0, err
	}

	return c.WriteTo(data, addr)
}

// serve runs in its own goroutine per packet. A panicking Method must not
// take down the loop.
func (s *Server) serve(p Packet, a net.Addr) {
	defer s.inflight.Done()
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 64<<10)
			buf = buf[:runtime.Stack(buf, false)]
			s.logf("osc: panic handling packet from %v: %v\n%s", a, err, buf)
		}
	}()

	s.dispatchPacket(p, a)
}

func (s *Server) dispatchPacket(p Packet, a net.Addr) {
	switch p := p.(type) {
	case *Message:
		reply, err := s.Dispatcher.Dispatch(p)
		if err != nil {
			s.logf("osc: %v (from %v)", err, a)
			return
		}
		if reply != nil {
			if _, err := s.WriteTo(reply, a); err != nil && !errors.Is(err, ErrServerClosed) {
				s.logf("osc: reply to %v: %v", a, err)
			}
		}

	case *Bundle:
		// A bundle's timetag delays all of its elements, but the wait must
		// never hold up Shutdown: a still-pending bundle is dropped instead.
		if d := p.Timetag.ExpiresIn(); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-t.C:
			case <-s.doneChan():
				t.Stop()
				return
			}
		}
		for _, elem := range p.Elements {
			s.dispatchPacket(elem, a)
		}
	}
}

// ReceivePacket reads a single OSC packet from the connection.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	return s.readFromConnection(c)
}

// readFromConnection retrieves OSC packets.
func (s *Server) readFromConnection(c net.PacketConn) (Packet, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := bPool.Get().(*[]byte)
	defer bPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}
	bb := make([]byte, n)
	copy(bb, *b)

	p, err := parsePacket(bb)
	return p, a, err
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
