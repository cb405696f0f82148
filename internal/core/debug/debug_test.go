package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/dcrodman/hangman/internal/protocol"
)

func TestDumpMessage(t *testing.T) {
	dump := DumpMessage(protocol.Progress{Pattern: []byte("c__"), Incorrect: []byte("x")})

	for _, want := range []string{"Progress", "Pattern", "Incorrect", "c__"} {
		if !strings.Contains(dump, want) {
			t.Errorf("expected the dump to contain %q, got:\n%s", want, dump)
		}
	}
}

func TestLogMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.DebugLevel)

	LogMessage(logger, Inbound, protocol.Guess{Letter: 'e'})

	out := buf.String()
	if !strings.Contains(out, "guess message") || !strings.Contains(out, string(Inbound)) {
		t.Errorf("unexpected log output: %s", out)
	}
}
