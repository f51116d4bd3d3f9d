package holdem

import (
	"time"

	"agentpoker-server/pkg/deck"

	"github.com/thoas/go-funk"
)

// HandSummary is the immutable record of a completed hand.
type HandSummary struct {
	HandID    int            `json:"handId"`
	Completed time.Time      `json:"completed"`
	Community deck.Hand      `json:"community"`
	Winners   []string       `json:"winners"`
	Winnings  map[string]int `json:"winnings"`
	Rake      int            `json:"rake"`
	// ShownDown is false when the hand ended before showdown and no
	// hole cards were revealed
	ShownDown bool         `json:"shownDown"`
	Reveal    *deck.Reveal `json:"reveal"`
}

// History is a bounded ring buffer of completed hands. The oldest
// entry is evicted once the buffer is full.
type History struct {
	entries []*HandSummary
	size    int
}

func newHistory(size int) *History {
	return &History{
		entries: make([]*HandSummary, 0, size),
		size:    size,
	}
}

func (h *History) add(summary *HandSummary) {
	if len(h.entries) == h.size {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}

	h.entries = append(h.entries, summary)
}

// Hands returns the recorded hands from oldest to newest.
func (h *History) Hands() []*HandSummary {
	hands := make([]*HandSummary, len(h.entries))
	copy(hands, h.entries)
	return hands
}

// History returns the table's completed-hand records, oldest first.
func (t *Table) History() []*HandSummary {
	return t.history.Hands()
}

func (t *Table) recordHand(winners []*Player, winnings map[string]int, rake int, shownDown bool) {
	t.history.add(&HandSummary{
		HandID:    t.handID,
		Completed: time.Now(),
		Community: t.community.Clone(),
		Winners:   funk.Map(winners, func(p *Player) string { return p.ID }).([]string),
		Winnings:  winnings,
		Rake:      rake,
		ShownDown: shownDown,
		Reveal:    t.lastReveal,
	})
}
