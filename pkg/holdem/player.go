package holdem

import (
	"agentpoker-server/pkg/deck"
	"agentpoker-server/pkg/poker/action"
	"agentpoker-server/pkg/poker/handeval"
)

// Player is a seated player. All fields are mutated by the table only;
// chips persist across hands, everything else resets at hand start.
type Player struct {
	// ID is the table-assigned player id
	ID string
	// WalletRef is the caller's custody reference; the table never touches it
	WalletRef string
	// Seat is the player's stable seat index
	Seat int
	// Chips is the player's stack
	Chips int
	// SittingOut marks a disconnected player; set by the caller
	SittingOut bool

	hole       deck.Hand
	bet        int // committed this betting round
	totalBet   int // committed this hand
	folded     bool
	allIn      bool
	acted      bool // has acted since the last full raise this round
	lastAction action.Action

	result *handeval.Result // populated at showdown
}

// inHand returns true if the player was dealt in and has not folded
func (p *Player) inHand() bool {
	return len(p.hole) > 0 && !p.folded
}

// canAct returns true if the player may check, call, raise, or fold
func (p *Player) canAct() bool {
	return p.inHand() && !p.allIn
}

// newHand resets the per-hand fields
func (p *Player) newHand() {
	p.hole = nil
	p.bet = 0
	p.totalBet = 0
	p.folded = false
	p.allIn = false
	p.acted = false
	p.lastAction = ""
	p.result = nil
}

// newRound resets the per-betting-round fields
func (p *Player) newRound() {
	p.bet = 0
	p.acted = false
}
