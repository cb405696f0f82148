// Package server implements the hangman game server.
//
// A single event loop owns the listener's accepted connections and the set of active
// sessions. Each admitted connection gets a reader goroutine that does nothing but read
// length-prefixed frames and hand them to the loop, so every session transition and
// every write happens on one goroutine without locking.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dcrodman/hangman/internal/core"
	"github.com/dcrodman/hangman/internal/core/cache"
	"github.com/dcrodman/hangman/internal/game"
	"github.com/dcrodman/hangman/internal/protocol"
	"github.com/dcrodman/hangman/internal/words"
)

// ErrSocket wraps failures to listen on or accept from the server socket.
var ErrSocket = errors.New("socket error")

// Server runs hangman games for up to Config.MaxConnections players at a time.
type Server struct {
	Config *core.Config
	Logger *logrus.Logger
	Bank   *words.Bank

	// Recorder receives every finished game. Optional.
	Recorder *Recorder
	// Recent tracks words recently given to each player IP so that a returning player
	// gets a different word when the bank allows it. Optional.
	Recent *cache.Cache

	listener net.Listener
	sessions *sessionSet
	frames   chan frame
	stats    counters
}

// frame is one read result from a client's reader goroutine.
type frame struct {
	conn    net.Conn
	payload []byte
	err     error
}

// Listen opens the TCP socket on the configured address.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.Config.Address())
	if err != nil {
		return fmt.Errorf("%w: error listening on %s: %v", ErrSocket, s.Config.Address(), err)
	}
	s.listener = listener
	return nil
}

// Addr returns the address the server is listening on, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stats returns a snapshot of the server's counters. Safe to call from any goroutine.
func (s *Server) Stats() Stats {
	return s.stats.snapshot(s.Config.MaxConnections)
}

// ListenAndServe opens the socket and runs the event loop until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve runs the event loop on the socket opened by Listen. It returns nil once ctx
// is cancelled and every session has been closed, or an error wrapping ErrSocket if
// the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return fmt.Errorf("%w: Serve called before Listen", ErrSocket)
	}

	s.sessions = newSessionSet(s.Config.MaxConnections)
	s.frames = make(chan frame, s.Config.MaxConnections)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	connections := make(chan net.Conn)
	acceptErr := make(chan error, 1)
	go s.acceptConnections(ctx, connections, acceptErr)

	s.Logger.Infof("waiting for connections on %v (capacity %d)", s.listener.Addr(), s.Config.MaxConnections)

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case err := <-acceptErr:
			s.shutdown()
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("%w: failed to accept connection: %v", ErrSocket, err)
		case conn := <-connections:
			s.admit(ctx, conn)
		case f := <-s.frames:
			s.dispatch(f)
		}
	}
}

// acceptConnections hands accepted sockets to the event loop until the listener fails.
func (s *Server) acceptConnections(ctx context.Context, connections chan<- net.Conn, errs chan<- error) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			errs <- err
			return
		}

		select {
		case connections <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

// admit either starts a session for conn or turns it away if the server is full.
func (s *Server) admit(ctx context.Context, conn net.Conn) {
	if s.sessions.full() {
		s.reject(conn)
		return
	}

	ip := remoteIP(conn)
	word := s.Bank.PickExcluding(func(w string) bool { return s.recentlyServed(ip, w) })

	c := newConnection(conn, game.NewSession(word, s.Config.MaxAttempts), s.Logger)
	c.writeTimeout = s.Config.WriteTimeout
	c.logPackets = s.Config.Debugging.PacketLoggingEnabled

	s.sessions.add(c)
	s.stats.accepted.Add(1)
	s.stats.active.Add(1)
	s.markServed(ip, word)

	c.logger.Infof("accepted connection (%d/%d)", s.sessions.len(), s.Config.MaxConnections)

	if err := c.send(protocol.Ready{}); err != nil {
		c.logger.Warnf("error sending ready signal: %v", err)
		s.finish(c)
		return
	}

	go s.readFrames(ctx, conn)
}

func (s *Server) reject(conn net.Conn) {
	s.stats.rejected.Add(1)
	s.Logger.Infof("rejected connection from %s: server full", conn.RemoteAddr())

	if err := writeMessage(conn, protocol.Reject{Text: protocol.OverloadedText}, s.Config.WriteTimeout); err != nil {
		s.Logger.Warnf("error sending capacity notice: %v", err)
	}
	if err := conn.Close(); err != nil {
		s.Logger.Warnf("failed to close rejected connection: %s", err)
	}
}

// readFrames is a blocking loop dedicated to reading frames from one client. It stops
// after forwarding the first read error, which includes the connection being closed
// by the event loop.
func (s *Server) readFrames(ctx context.Context, conn net.Conn) {
	idle := s.Config.SessionIdleTimeout

	for {
		if idle > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(idle))
		}
		payload, err := protocol.ReadFrame(conn)

		select {
		case s.frames <- frame{conn: conn, payload: payload, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch applies one frame to the session it belongs to and writes the response.
func (s *Server) dispatch(f frame) {
	c, ok := s.sessions.get(f.conn)
	if !ok {
		// Already closed by the loop; this is the reader noticing.
		return
	}
	defer s.recoverClient(c)

	if f.err != nil {
		if errors.Is(f.err, io.EOF) {
			c.logger.Info("client disconnected")
		} else {
			c.logger.Warnf("dropping client: %v", f.err)
		}
		s.finish(c)
		return
	}

	msg, err := protocol.DecodeCommand(f.payload)
	if err != nil {
		s.handleMalformed(c, err)
		return
	}
	c.received(msg)

	switch m := msg.(type) {
	case protocol.Ready:
		s.handleReady(c)
	case protocol.Guess:
		s.handleGuess(c, m)
	case protocol.Terminate:
		c.logger.Info("client terminated session")
		s.finish(c)
	default:
		s.handleMalformed(c, fmt.Errorf("unexpected %s message", msg.Kind()))
	}
}

func (s *Server) handleReady(c *connection) {
	if c.session.State() != game.AwaitingReady {
		c.logger.Debug("ignoring ready signal from a session in progress")
		return
	}

	announcement, err := c.session.Start()
	if err != nil {
		c.logger.Warnf("error starting session: %v", err)
		return
	}
	if err := c.send(announcement); err != nil {
		c.logger.Warnf("error sending word length: %v", err)
		s.finish(c)
	}
}

func (s *Server) handleGuess(c *connection, g protocol.Guess) {
	response, err := c.session.ApplyGuess(g.Letter)
	if err != nil {
		s.handleMalformed(c, err)
		return
	}

	if err := c.send(response); err != nil {
		c.logger.Warnf("error sending guess response: %v", err)
		s.finish(c)
		return
	}

	if c.session.Done() {
		c.logger.Infof("game over (%s): %s", c.session.State(), c.session.Target())
		s.finish(c)
	}
}

// handleMalformed leaves the session untouched. A client that is mid-game is waiting
// for a response to its guess, so it gets the current progress again; anything sent
// before the game starts is dropped.
func (s *Server) handleMalformed(c *connection, err error) {
	if c.session.State() != game.InProgress {
		c.logger.Warnf("ignoring message: %v", err)
		return
	}

	c.logger.Warnf("resending progress after bad guess: %v", err)
	if err := c.send(c.session.Progress()); err != nil {
		c.logger.Warnf("error sending progress: %v", err)
		s.finish(c)
	}
}

// finish closes the client's connection and frees its slot. Sessions that have not
// already ended are aborted.
func (s *Server) finish(c *connection) {
	if _, ok := s.sessions.remove(c.conn); !ok {
		return
	}

	c.session.Abort()
	if err := c.Close(); err != nil {
		c.logger.Warnf("failed to close client connection: %s", err)
	}

	state := c.session.State()
	s.Recorder.Record(c.session.Summary(), c.IPAddr())
	s.stats.finished(state)
	s.stats.active.Add(-1)

	c.logger.Infof("disconnected client (%s)", state)
}

// recoverClient is the failsafe that catches any panics while handling a client and
// disconnects them without taking down the loop.
func (s *Server) recoverClient(c *connection) {
	if err := recover(); err != nil {
		c.logger.Errorf("error in client communication: error=%s, trace: %s", err, debug.Stack())
		s.finish(c)
	}
}

func (s *Server) shutdown() {
	s.Logger.Info("shutting down (closing client connections)")

	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.Logger.Warnf("error closing listener: %v", err)
	}
	for _, c := range s.sessions.all() {
		s.finish(c)
	}

	s.Logger.Info("exited")
}

func (s *Server) recentlyServed(ip, word string) bool {
	return s.Recent != nil && s.Recent.Has(ip+"/"+word)
}

func (s *Server) markServed(ip, word string) {
	if s.Recent != nil {
		s.Recent.Put(ip+"/"+word, struct{}{}, 0)
	}
}
