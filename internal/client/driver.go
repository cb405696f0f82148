// Package client is the interactive terminal player for the hangman server.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/dcrodman/hangman/internal/protocol"
)

const (
	readyPrompt  = ">>>Ready to start game? (y/n): "
	letterPrompt = ">>>Letter to guess: "
	letterError  = "Error! Please guess one letter."
)

// ErrServerFull is returned by Play when the server turned the connection away.
var ErrServerFull = errors.New("server is full")

// Driver plays one game over a connection to the server.
type Driver struct {
	conn net.Conn
}

// Dial connects to the hangman server at address.
func Dial(ctx context.Context, address string) (*Driver, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", address, err)
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn net.Conn) *Driver {
	return &Driver{conn: conn}
}

func (d *Driver) Close() error {
	return d.conn.Close()
}

// Play reads the player's answers from in and writes prompts and the board to out
// until the game ends, the player declines to start, or in is exhausted. Cancelling
// ctx closes the connection.
func (d *Driver) Play(ctx context.Context, in io.Reader, out io.Writer) error {
	stop := context.AfterFunc(ctx, func() { _ = d.conn.Close() })
	defer stop()

	msg, err := protocol.Decode(d.conn, protocol.PhaseHandshake)
	if err != nil {
		return fmt.Errorf("error reading handshake: %w", err)
	}
	if reject, ok := msg.(protocol.Reject); ok {
		fmt.Fprintln(out, reject.Text)
		return ErrServerFull
	}

	input := bufio.NewScanner(in)

	fmt.Fprint(out, readyPrompt)
	answer, ok := readLine(input)
	if !ok || !strings.HasPrefix(answer, "y") {
		return nil
	}

	if err := protocol.Write(d.conn, protocol.Ready{}); err != nil {
		return err
	}
	msg, err = protocol.Decode(d.conn, protocol.PhaseSetup)
	if err != nil {
		return fmt.Errorf("error reading word length: %w", err)
	}
	length := msg.(protocol.WordLength).Length
	render(out, protocol.Progress{Pattern: []byte(strings.Repeat(string(protocol.Placeholder), int(length)))})

	for {
		fmt.Fprint(out, letterPrompt)
		line, ok := readLine(input)
		if !ok {
			fmt.Fprintln(out)
			return protocol.Write(d.conn, protocol.Terminate{})
		}

		if len(line) != 1 || !protocol.IsLetter(line[0]) {
			fmt.Fprintln(out, letterError)
			continue
		}

		if err := protocol.Write(d.conn, protocol.Guess{Letter: line[0]}); err != nil {
			return err
		}
		msg, err := protocol.Decode(d.conn, protocol.PhaseResult)
		if err != nil {
			return fmt.Errorf("error reading guess result: %w", err)
		}

		switch result := msg.(type) {
		case protocol.Progress:
			render(out, result)
		case protocol.Terminal:
			fmt.Fprintln(out, result.Text)
			return nil
		}
	}
}

func readLine(s *bufio.Scanner) (string, bool) {
	if !s.Scan() {
		return "", false
	}
	return strings.TrimRight(s.Text(), "\r"), true
}

// render prints the board: the pattern and the incorrect letters, space separated.
func render(out io.Writer, p protocol.Progress) {
	fmt.Fprintf(out, ">>>%s\n", spaced(p.Pattern))
	fmt.Fprintf(out, ">>>Incorrect Guesses: %s\n>>>\n", spaced(p.Incorrect))
}

func spaced(letters []byte) string {
	parts := make([]string, len(letters))
	for i, b := range letters {
		parts[i] = string(b)
	}
	return strings.Join(parts, " ")
}
