// Package protocol implements the length-prefixed wire format spoken between the
// hangman server and its clients.
//
// Every message starts with a single length byte. A zero length is a sentinel whose
// meaning depends on where the connection is in its session; a non-zero length is
// followed by exactly that many payload bytes. Two shapes break the envelope: the
// word length announcement is four raw bytes, and a progress response carries its
// own pair of one-byte counts after the zero sentinel.
package protocol

// Kind identifies a decoded message for logging and dispatch.
type Kind string

const (
	KindReady      Kind = "ready"
	KindWordLength Kind = "word_length"
	KindGuess      Kind = "guess"
	KindTerminate  Kind = "terminate"
	KindProgress   Kind = "progress"
	KindTerminal   Kind = "terminal"
	KindReject     Kind = "reject"
)

const (
	// MaxPayloadSize is the largest payload a single length byte can describe.
	MaxPayloadSize = 0xFF
	// WordLengthSize is the size of the unframed word length announcement.
	WordLengthSize = 4

	// guessFlag is the reserved first byte of a guess payload.
	guessFlag = 0x01
	guessSize = 2
)

// OverloadedText is sent with a Reject when the server is at capacity.
const OverloadedText = "server-overloaded"

// terminateSignal is the payload a client sends to end its session early. It is
// followed by a null byte on the wire.
const terminateSignal = "Client terminated"

// Message is implemented by every decoded protocol message.
type Message interface {
	Kind() Kind
}

// Ready is the zero-length sentinel. The server sends it to admit a connection and the
// client sends it back once the player wants to start.
type Ready struct{}

// WordLength announces the length of the target word after the ready handshake.
type WordLength struct {
	Length uint32
}

// Guess carries a single lowercase letter from the client.
type Guess struct {
	Letter byte
}

// Terminate is the client's request to end the session without finishing the word.
type Terminate struct{}

// Progress is the server's response to a guess that did not end the game.
type Progress struct {
	// Pattern holds the revealed letters with Placeholder for unrevealed positions.
	Pattern []byte
	// Incorrect holds the incorrect letters in the order they were guessed.
	Incorrect []byte
}

// Terminal is the server's final message for a won or lost game.
type Terminal struct {
	Text string
}

// Reject is sent in place of Ready when a connection cannot be admitted.
type Reject struct {
	Text string
}

func (Ready) Kind() Kind      { return KindReady }
func (WordLength) Kind() Kind { return KindWordLength }
func (Guess) Kind() Kind      { return KindGuess }
func (Terminate) Kind() Kind  { return KindTerminate }
func (Progress) Kind() Kind   { return KindProgress }
func (Terminal) Kind() Kind   { return KindTerminal }
func (Reject) Kind() Kind     { return KindReject }

// Placeholder marks an unrevealed position in a Progress pattern.
const Placeholder = '_'

// IsLetter reports whether b is an ASCII letter.
func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ToLower lowercases an ASCII letter and returns any other byte unchanged.
func ToLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
