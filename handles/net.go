package handles

import (
	"net"
	"strings"
	"time"
)

// Listener is a tracked net.Listener.
type Listener struct {
	net.Listener
	*life
}

// Listen announces on a local network address like net.Listen and
// tracks the listener until Close.
func Listen(network, address string) (*Listener, error) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}
	h := &Listener{Listener: ln, life: &life{}}
	register(listenerType(network), h, h.life)
	return h, nil
}

// Close stops the listener and ends tracking.
func (l *Listener) Close() error {
	err := l.Listener.Close()
	deregister(l.life)
	return err
}

func listenerType(network string) string {
	switch {
	case strings.HasPrefix(network, "tcp"):
		return TypeTCPListener
	case strings.HasPrefix(network, "unix"):
		return TypeUnixListener
	default:
		return TypeListener
	}
}

// Conn is a tracked net.Conn.
type Conn struct {
	net.Conn
	*life
}

// Dial connects like net.Dial and tracks the connection until Close.
func Dial(network, address string) (*Conn, error) {
	c, err := net.Dial(network, address)
	if err != nil {
		return nil, err
	}
	h := &Conn{Conn: c, life: &life{}}
	register(TypeConn, h, h.life)
	return h, nil
}

// DialTimeout connects like net.DialTimeout and tracks the connection
// until Close.
func DialTimeout(network, address string, timeout time.Duration) (*Conn, error) {
	c, err := net.DialTimeout(network, address, timeout)
	if err != nil {
		return nil, err
	}
	h := &Conn{Conn: c, life: &life{}}
	register(TypeConn, h, h.life)
	return h, nil
}

// Close closes the connection and ends tracking.
func (c *Conn) Close() error {
	err := c.Conn.Close()
	deregister(c.life)
	return err
}
