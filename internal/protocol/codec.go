package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Phase tells Decode which messages are legal at the current point of a session.
// The zero length byte means different things in different phases, so the wire
// format cannot be decoded without it.
type Phase int

const (
	// PhaseHandshake is the client waiting for the server's Ready or Reject.
	PhaseHandshake Phase = iota
	// PhaseSetup is the client waiting for the WordLength announcement.
	PhaseSetup
	// PhaseCommand is the server waiting for a Ready, Guess or Terminate.
	PhaseCommand
	// PhaseResult is the client waiting for a Progress or Terminal response.
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshake:
		return "handshake"
	case PhaseSetup:
		return "setup"
	case PhaseCommand:
		return "command"
	case PhaseResult:
		return "result"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ReadFull fills buf from r, accumulating short reads until every byte has arrived.
// A reader that is closed before the first byte yields io.EOF; any other shortfall is
// returned as a *FramingError.
func ReadFull(r io.Reader, buf []byte) error {
	received := 0

	for received < len(buf) {
		n, err := r.Read(buf[received:])
		received += n

		if received == len(buf) {
			return nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if received == 0 {
					return io.EOF
				}
				err = io.ErrUnexpectedEOF
			}
			return &FramingError{Expected: len(buf), Received: received, Err: err}
		}
	}

	return nil
}

// ReadFrame reads one length-prefixed frame and returns its payload, which is empty
// for the zero-length sentinel. A connection closed between frames yields io.EOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [1]byte
	if err := ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	length := int(header[0])
	if length == 0 {
		return nil, nil
	}

	payload := make([]byte, length)
	if err := readPayload(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// readPayload is ReadFull for bytes that follow a header, where even a clean EOF
// means the message was cut short.
func readPayload(r io.Reader, buf []byte) error {
	err := ReadFull(r, buf)
	if err == io.EOF {
		return &FramingError{Expected: len(buf), Received: 0, Err: io.ErrUnexpectedEOF}
	}
	return err
}

// Decode reads the next message from r, interpreting the bytes according to phase.
func Decode(r io.Reader, phase Phase) (Message, error) {
	switch phase {
	case PhaseHandshake:
		payload, err := ReadFrame(r)
		if err != nil {
			return nil, err
		}
		if len(payload) == 0 {
			return Ready{}, nil
		}
		return Reject{Text: string(payload)}, nil

	case PhaseSetup:
		var buf [WordLengthSize]byte
		if err := ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		return WordLength{Length: binary.LittleEndian.Uint32(buf[:])}, nil

	case PhaseCommand:
		payload, err := ReadFrame(r)
		if err != nil {
			return nil, err
		}
		return DecodeCommand(payload)

	case PhaseResult:
		payload, err := ReadFrame(r)
		if err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			return Terminal{Text: string(payload)}, nil
		}
		return decodeProgress(r)
	}

	return nil, fmt.Errorf("%w: %v", ErrUnknownPhase, phase)
}

// decodeProgress reads the body of a progress response after its zero sentinel.
func decodeProgress(r io.Reader) (Message, error) {
	var counts [2]byte
	if err := readPayload(r, counts[:]); err != nil {
		return nil, err
	}

	body := make([]byte, int(counts[0])+int(counts[1]))
	if err := readPayload(r, body); err != nil {
		return nil, err
	}

	return Progress{
		Pattern:   body[:counts[0]],
		Incorrect: body[counts[0]:],
	}, nil
}

// DecodeCommand classifies a frame payload received by the server.
func DecodeCommand(payload []byte) (Message, error) {
	switch {
	case len(payload) == 0:
		return Ready{}, nil
	case string(bytes.TrimRight(payload, "\x00")) == terminateSignal:
		return Terminate{}, nil
	case len(payload) != guessSize:
		return nil, fmt.Errorf("%w: %d byte payload", ErrMalformedGuess, len(payload))
	case !IsLetter(payload[1]):
		return nil, fmt.Errorf("%w: %q is not a letter", ErrMalformedGuess, payload[1])
	}
	return Guess{Letter: ToLower(payload[1])}, nil
}

// Marshal encodes m in its wire form.
func Marshal(m Message) ([]byte, error) {
	switch msg := m.(type) {
	case Ready:
		return []byte{0}, nil

	case WordLength:
		buf := make([]byte, WordLengthSize)
		binary.LittleEndian.PutUint32(buf, msg.Length)
		return buf, nil

	case Guess:
		return []byte{guessSize, guessFlag, ToLower(msg.Letter)}, nil

	case Terminate:
		return frame([]byte(terminateSignal + "\x00"))

	case Progress:
		pattern := capped(msg.Pattern)
		incorrect := capped(msg.Incorrect)

		buf := make([]byte, 0, 3+len(pattern)+len(incorrect))
		buf = append(buf, 0, byte(len(pattern)), byte(len(incorrect)))
		buf = append(buf, pattern...)
		return append(buf, incorrect...), nil

	case Terminal:
		return frame([]byte(msg.Text))

	case Reject:
		return frame([]byte(msg.Text))
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, m)
}

// Write encodes m and writes all of it to w.
func Write(w io.Writer, m Message) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}

	bytesSent := 0
	for bytesSent < len(data) {
		n, err := w.Write(data[bytesSent:])
		if err != nil {
			return fmt.Errorf("writing %s message: %w", m.Kind(), err)
		}
		bytesSent += n
	}
	return nil
}

func frame(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d", ErrPayloadTooLarge, len(payload))
	}
	return append([]byte{byte(len(payload))}, payload...), nil
}

// capped truncates b to the largest length a one-byte count can carry.
func capped(b []byte) []byte {
	if len(b) > MaxPayloadSize {
		return b[:MaxPayloadSize]
	}
	return b
}
