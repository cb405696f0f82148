package server

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dcrodman/hangman/internal/core/debug"
	"github.com/dcrodman/hangman/internal/game"
	"github.com/dcrodman/hangman/internal/protocol"
)

// connection is a player connected to the server along with their game.
type connection struct {
	conn    net.Conn
	ipAddr  string
	session *game.Session
	logger  *logrus.Entry

	writeTimeout time.Duration
	logPackets   bool
}

func newConnection(conn net.Conn, session *game.Session, logger *logrus.Logger) *connection {
	ip := remoteIP(conn)

	return &connection{
		conn:    conn,
		ipAddr:  ip,
		session: session,
		logger: logger.WithFields(logrus.Fields{
			"session": session.ID.String(),
			"remote":  conn.RemoteAddr().String(),
		}),
	}
}

func (c *connection) IPAddr() string { return c.ipAddr }

// send writes msg to the client. Each write gets its own deadline so that a client
// that stops reading cannot stall the server.
func (c *connection) send(msg protocol.Message) error {
	if c.logPackets {
		debug.LogMessage(c.logger, debug.Outbound, msg)
	}
	return writeMessage(c.conn, msg, c.writeTimeout)
}

func (c *connection) received(msg protocol.Message) {
	if c.logPackets {
		debug.LogMessage(c.logger, debug.Inbound, msg)
	}
}

func (c *connection) Close() error {
	return c.conn.Close()
}

func writeMessage(conn net.Conn, msg protocol.Message, timeout time.Duration) error {
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("setting write deadline: %w", err)
		}
	}
	if err := protocol.Write(conn, msg); err != nil {
		return fmt.Errorf("failed to send to client %v: %w", conn.RemoteAddr(), err)
	}
	return nil
}

func remoteIP(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}
