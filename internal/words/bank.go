// Package words loads the list of candidate words served to players.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dcrodman/hangman/internal/protocol"
)

const (
	// DefaultMaxWords is the number of entries read from a word list.
	DefaultMaxWords = 15
	// DefaultMaxWordLength is the length at which longer entries are truncated.
	DefaultMaxWordLength = 8
)

var (
	// ErrSourceUnavailable is returned when the word list cannot be opened or read.
	ErrSourceUnavailable = errors.New("word source unavailable")
	// ErrEmptyBank is returned when a word list contains no usable words.
	ErrEmptyBank = errors.New("word bank is empty")
)

// Options control how a word list is read.
type Options struct {
	// MaxWords stops reading once this many words have been accepted.
	MaxWords int
	// MaxWordLength truncates longer entries.
	MaxWordLength int
}

func DefaultOptions() Options {
	return Options{MaxWords: DefaultMaxWords, MaxWordLength: DefaultMaxWordLength}
}

// Bank is an immutable, ordered set of candidate words.
type Bank struct {
	words []string
	intn  func(n int) int
}

// New returns a Bank containing words as given.
func New(words []string) *Bank {
	return &Bank{
		words: append([]string(nil), words...),
		intn:  rand.Intn,
	}
}

// WithRand returns a copy of b that picks using r. The returned Bank is not safe
// for concurrent use.
func (b *Bank) WithRand(r *rand.Rand) *Bank {
	return &Bank{words: b.words, intn: r.Intn}
}

// Load reads a word list from the file at path.
func Load(path string, opts Options) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	return FromReader(f, opts)
}

// FromReader reads one word per line from r. Entries are trimmed, lowercased and
// truncated to opts.MaxWordLength. Blank lines and entries containing anything other
// than letters are skipped since they could never be guessed. Reading stops after
// opts.MaxWords words or at the end of r.
func FromReader(r io.Reader, opts Options) (*Bank, error) {
	if opts.MaxWords <= 0 {
		opts.MaxWords = DefaultMaxWords
	}
	if opts.MaxWordLength <= 0 {
		opts.MaxWordLength = DefaultMaxWordLength
	}

	lower := cases.Lower(language.Und)
	var words []string

	br := bufio.NewReader(r)
	for len(words) < opts.MaxWords {
		line, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}

		word := lower.String(strings.TrimSpace(line))
		if len(word) > opts.MaxWordLength {
			word = word[:opts.MaxWordLength]
		}
		if word == "" || !isWord(word) {
			continue
		}
		words = append(words, word)
	}

	if len(words) == 0 {
		return nil, ErrEmptyBank
	}
	return New(words), nil
}

// maxLineLength is how much of a line is kept; the rest of a longer line is discarded.
// It leaves room for surrounding whitespace on top of the longest allowed word.
const maxLineLength = 1024

// readLine returns the next line of br without its terminator, keeping at most
// maxLineLength bytes. It returns io.EOF only when no line is left.
func readLine(br *bufio.Reader) (string, error) {
	var line []byte
	started := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && started {
				return string(line), nil
			}
			return "", err
		}
		started = true

		if room := maxLineLength - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if !isPrefix {
			return string(line), nil
		}
	}
}

func isWord(w string) bool {
	for i := 0; i < len(w); i++ {
		if !protocol.IsLetter(w[i]) {
			return false
		}
	}
	return true
}

// Pick returns a uniformly random word. The bank must not be empty.
func (b *Bank) Pick() string {
	return b.words[b.intn(len(b.words))]
}

// PickExcluding returns a uniformly random word for which exclude returns false. If
// every word is excluded it falls back to Pick.
func (b *Bank) PickExcluding(exclude func(word string) bool) string {
	candidates := make([]string, 0, len(b.words))
	for _, w := range b.words {
		if !exclude(w) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return b.Pick()
	}
	return candidates[b.intn(len(candidates))]
}

func (b *Bank) Len() int { return len(b.words) }

// Words returns a copy of the bank's contents in load order.
func (b *Bank) Words() []string {
	return append([]string(nil), b.words...)
}
