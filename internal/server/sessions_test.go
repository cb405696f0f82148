package server

import (
	"net"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/dcrodman/hangman/internal/game"
)

func newPipeConnection(t *testing.T) *connection {
	t.Helper()

	local, remote := net.Pipe()
	t.Cleanup(func() {
		_ = local.Close()
		_ = remote.Close()
	})

	logger, _ := test.NewNullLogger()
	return newConnection(local, game.NewSession("cat", game.DefaultAttempts), logger)
}

func TestSessionSet_Capacity(t *testing.T) {
	set := newSessionSet(2)

	first, second, third := newPipeConnection(t), newPipeConnection(t), newPipeConnection(t)
	assert.True(t, set.add(first))
	assert.False(t, set.full())
	assert.True(t, set.add(second))
	assert.True(t, set.full())
	assert.False(t, set.add(third), "add should fail once the set is full")
	assert.Equal(t, 2, set.len())

	removed, ok := set.remove(first.conn)
	assert.True(t, ok)
	assert.Same(t, first, removed)
	_, ok = set.remove(first.conn)
	assert.False(t, ok, "second remove should report the connection is gone")

	assert.True(t, set.add(third))
	c, ok := set.get(third.conn)
	assert.True(t, ok)
	assert.Same(t, third, c)
}

func TestSessionSet_AllAllowsRemoval(t *testing.T) {
	set := newSessionSet(3)
	for i := 0; i < 3; i++ {
		set.add(newPipeConnection(t))
	}

	for _, c := range set.all() {
		set.remove(c.conn)
	}
	assert.Zero(t, set.len())
}

func TestRecorder_NilDiscards(t *testing.T) {
	var recorder *Recorder
	assert.NotPanics(t, func() {
		recorder.Record(game.NewSession("cat", 1).Summary(), "127.0.0.1")
	})
}
