package server

import (
	"sync/atomic"

	"github.com/dcrodman/hangman/internal/game"
)

// Stats is a point-in-time view of the server's counters.
type Stats struct {
	Active   int    `json:"active"`
	Capacity int    `json:"capacity"`
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
	Won      uint64 `json:"won"`
	Lost     uint64 `json:"lost"`
	Aborted  uint64 `json:"aborted"`
}

// counters are written by the event loop and read from any goroutine.
type counters struct {
	active   atomic.Int64
	accepted atomic.Uint64
	rejected atomic.Uint64
	won      atomic.Uint64
	lost     atomic.Uint64
	aborted  atomic.Uint64
}

func (c *counters) finished(state game.State) {
	switch state {
	case game.Won:
		c.won.Add(1)
	case game.Lost:
		c.lost.Add(1)
	default:
		c.aborted.Add(1)
	}
}

func (c *counters) snapshot(capacity int) Stats {
	return Stats{
		Active:   int(c.active.Load()),
		Capacity: capacity,
		Accepted: c.accepted.Load(),
		Rejected: c.rejected.Load(),
		Won:      c.won.Load(),
		Lost:     c.lost.Load(),
		Aborted:  c.aborted.Load(),
	}
}
