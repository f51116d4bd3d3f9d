package holdem

import (
	"agentpoker-server/pkg/deck"
	"agentpoker-server/pkg/poker/action"
	"agentpoker-server/pkg/poker/handeval"
)

// Snapshot is a point-in-time view of the table suitable for sending to
// a client. Hole cards are only present for the viewer, or for players
// whose hands were revealed at showdown.
type Snapshot struct {
	TableID     string          `json:"tableId"`
	HandID      int             `json:"handId"`
	Phase       Phase           `json:"phase"`
	Community   deck.Hand       `json:"community"`
	Pot         int             `json:"pot"`
	CurrentBet  int             `json:"currentBet"`
	MinRaise    int             `json:"minRaise"`
	DealerSeat  int             `json:"dealerSeat"`
	CurrentSeat int             `json:"currentSeat"`
	Commitment  string          `json:"commitment,omitempty"`
	Players     []*SeatSnapshot `json:"players"`
}

// SeatSnapshot is one player's visible state within a Snapshot
type SeatSnapshot struct {
	PlayerID   string           `json:"playerId"`
	Seat       int              `json:"seat"`
	Chips      int              `json:"chips"`
	Bet        int              `json:"bet"`
	TotalBet   int              `json:"totalBet"`
	Folded     bool             `json:"folded"`
	AllIn      bool             `json:"allIn"`
	SittingOut bool             `json:"sittingOut"`
	LastAction action.Action    `json:"lastAction,omitempty"`
	HoleCards  deck.Hand        `json:"holeCards,omitempty"`
	Result     *handeval.Result `json:"result,omitempty"`
}

// Snapshot returns the table state as seen by viewerID. The viewer's own
// hole cards are included; everyone else's follow the public rules.
func (t *Table) Snapshot(viewerID string) *Snapshot {
	return t.snapshot(viewerID)
}

// PublicSnapshot returns the table state with no privileged hole cards
func (t *Table) PublicSnapshot() *Snapshot {
	return t.snapshot("")
}

func (t *Table) snapshot(viewerID string) *Snapshot {
	commitment := ""
	if t.deck != nil {
		commitment = t.deck.Commitment()
	}

	s := &Snapshot{
		TableID:     t.UUID,
		HandID:      t.handID,
		Phase:       t.phase,
		Community:   t.community.Clone(),
		Pot:         t.pot,
		CurrentBet:  t.currentBet,
		MinRaise:    t.minRaise,
		DealerSeat:  t.dealerSeat,
		CurrentSeat: t.currentSeat,
		Commitment:  commitment,
		Players:     make([]*SeatSnapshot, 0, len(t.players)),
	}

	for seat, id := range t.seats {
		if id == "" {
			continue
		}

		p := t.players[id]
		ss := &SeatSnapshot{
			PlayerID:   p.ID,
			Seat:       seat,
			Chips:      p.Chips,
			Bet:        p.bet,
			TotalBet:   p.totalBet,
			Folded:     p.folded,
			AllIn:      p.allIn,
			SittingOut: p.SittingOut,
			LastAction: p.lastAction,
		}

		// hole cards are shown to their owner, and to everyone once the
		// hand was tabled at showdown
		if p.ID == viewerID || p.result != nil {
			ss.HoleCards = p.hole.Clone()
			ss.Result = p.result
		}

		s.Players = append(s.Players, ss)
	}

	return s
}
