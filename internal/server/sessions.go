package server

import "net"

// sessionSet is the capacity-bounded collection of connected players. It is owned by
// the server's event loop and is not safe for concurrent use.
type sessionSet struct {
	capacity int
	clients  map[net.Conn]*connection
}

func newSessionSet(capacity int) *sessionSet {
	return &sessionSet{
		capacity: capacity,
		clients:  make(map[net.Conn]*connection, capacity),
	}
}

func (s *sessionSet) full() bool {
	return len(s.clients) >= s.capacity
}

// add registers c and reports whether there was room for it.
func (s *sessionSet) add(c *connection) bool {
	if s.full() {
		return false
	}
	s.clients[c.conn] = c
	return true
}

func (s *sessionSet) get(conn net.Conn) (*connection, bool) {
	c, ok := s.clients[conn]
	return c, ok
}

func (s *sessionSet) remove(conn net.Conn) (*connection, bool) {
	c, ok := s.clients[conn]
	if ok {
		delete(s.clients, conn)
	}
	return c, ok
}

func (s *sessionSet) len() int {
	return len(s.clients)
}

// all returns the current connections so callers may remove entries while iterating.
func (s *sessionSet) all() []*connection {
	list := make([]*connection, 0, len(s.clients))
	for _, c := range s.clients {
		list = append(list, c)
	}
	return list
}
