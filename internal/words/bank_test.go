package words

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func TestFromReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  []string
	}{
		{
			name:  "trims line terminators",
			input: "cat\r\ndog\nbird",
			opts:  DefaultOptions(),
			want:  []string{"cat", "dog", "bird"},
		},
		{
			name:  "normalizes case",
			input: "Gopher\nTCP\n",
			opts:  DefaultOptions(),
			want:  []string{"gopher", "tcp"},
		},
		{
			name:  "truncates to the length ceiling",
			input: "elephants\nencyclopedia\n",
			opts:  DefaultOptions(),
			want:  []string{"elephant", "encyclop"},
		},
		{
			name:  "skips blank and unguessable entries",
			input: "\n  \nr2d2\nhello world\nok\n",
			opts:  DefaultOptions(),
			want:  []string{"ok"},
		},
		{
			name:  "stops at the entry limit",
			input: "a\nb\nc\nd\n",
			opts:  Options{MaxWords: 2, MaxWordLength: 8},
			want:  []string{"a", "b"},
		},
		{
			name:  "truncates lines longer than the read buffer",
			input: "cat\n" + strings.Repeat("a", 70000) + "\ndog\n",
			opts:  DefaultOptions(),
			want:  []string{"cat", "aaaaaaaa", "dog"},
		},
		{
			name:  "over-long final line without a terminator",
			input: "cat\n" + strings.Repeat("B", 5000),
			opts:  DefaultOptions(),
			want:  []string{"cat", "bbbbbbbb"},
		},
		{
			name:  "zero options fall back to defaults",
			input: strings.Repeat("word\n", 20),
			opts:  Options{},
			want:  strings.Split(strings.TrimSuffix(strings.Repeat("word\n", DefaultMaxWords), "\n"), "\n"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, err := FromReader(strings.NewReader(tt.input), tt.opts)
			if err != nil {
				t.Fatalf("FromReader() returned an unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, bank.Words()); diff != "" {
				t.Errorf("FromReader() loaded the wrong words; diff:\n%s", diff)
			}
		})
	}
}

func TestFromReader_Empty(t *testing.T) {
	if _, err := FromReader(strings.NewReader("\n\n123\n"), DefaultOptions()); !errors.Is(err, ErrEmptyBank) {
		t.Errorf("expected ErrEmptyBank, got %v", err)
	}
}

func TestFromReader_ReadError(t *testing.T) {
	r := io.MultiReader(strings.NewReader("cat\n"), iotest.ErrReader(errors.New("disk failure")))
	if _, err := FromReader(r, DefaultOptions()); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("FromReader() error = %v, want %v", err, ErrSourceUnavailable)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hangman_words.txt")
	if err := os.WriteFile(path, []byte("apple\nbanana\ncherry\n"), 0644); err != nil {
		t.Fatalf("error writing word list: %v", err)
	}

	bank, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load() returned an unexpected error: %v", err)
	}
	if bank.Len() != 3 {
		t.Errorf("expected 3 words, got %d", bank.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"), DefaultOptions())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestBank_Pick(t *testing.T) {
	bank := New([]string{"one", "two", "three"}).WithRand(rand.New(rand.NewSource(1)))

	counts := map[string]int{}
	for i := 0; i < 300; i++ {
		counts[bank.Pick()]++
	}
	for _, w := range []string{"one", "two", "three"} {
		if counts[w] == 0 {
			t.Errorf("expected %q to be picked at least once in 300 draws; counts: %v", w, counts)
		}
	}
	if len(counts) != 3 {
		t.Errorf("Pick() returned words outside the bank: %v", counts)
	}
}

func TestBank_PickExcluding(t *testing.T) {
	bank := New([]string{"one", "two", "three"}).WithRand(rand.New(rand.NewSource(7)))

	for i := 0; i < 50; i++ {
		got := bank.PickExcluding(func(w string) bool { return w != "two" })
		if got != "two" {
			t.Fatalf("expected the only non-excluded word, got %q", got)
		}
	}

	got := bank.PickExcluding(func(string) bool { return true })
	if !strings.Contains("one two three", got) {
		t.Errorf("expected a fallback pick from the bank, got %q", got)
	}
}

func TestBank_IsImmutable(t *testing.T) {
	source := []string{"alpha", "beta"}
	bank := New(source)
	source[0] = "mutated"

	words := bank.Words()
	words[1] = "mutated"

	if diff := cmp.Diff([]string{"alpha", "beta"}, bank.Words()); diff != "" {
		t.Errorf("bank contents changed through an alias; diff:\n%s", diff)
	}
}

func ExampleBank_Words() {
	bank, _ := FromReader(strings.NewReader("Hangman\r\nGOLANG\n"), DefaultOptions())
	fmt.Println(bank.Words())
	// Output: [hangman golang]
}
