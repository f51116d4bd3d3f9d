package holdem

import (
	"agentpoker-server/pkg/deck"

	"github.com/sirupsen/logrus"
)

// StartHand begins a new betting cycle: fresh sealed deck, blinds, and hole
// cards. Fails if a hand is already active or fewer than two players can be
// dealt in.
func (t *Table) StartHand() (*Snapshot, error) {
	if t.handActive() {
		return nil, ErrHandInProgress
	}

	eligible := func(p *Player) bool {
		return p.Chips > 0 && !p.SittingOut
	}

	count := 0
	for _, p := range t.players {
		if eligible(p) {
			count++
		}
	}

	if count < 2 {
		return nil, ErrNotEnoughPlayers
	}

	t.handID++
	t.deck = deck.New(t.gen)
	t.community = nil
	t.pot = 0
	t.lastReveal = nil

	for _, p := range t.players {
		p.newHand()
	}

	// the button moves to the next seat that can play
	t.dealerSeat = t.nextOccupiedSeat(t.dealerSeat, eligible)

	// blinds come from the two seats after the button, capped at each
	// poster's stack
	sbSeat := t.nextOccupiedSeat(t.dealerSeat, eligible)
	bbSeat := t.nextOccupiedSeat(sbSeat, eligible)

	// capture who plays this hand before the blinds are taken; posting a
	// blind can empty a stack, and an all-in blind is still dealt in
	dealtIn := t.playersInSeatOrder(eligible)

	sb := t.players[t.seats[sbSeat]]
	bb := t.players[t.seats[bbSeat]]
	t.commitChips(sb, t.options.SmallBlind)
	t.commitChips(bb, t.options.BigBlind)

	t.currentBet = t.options.BigBlind
	t.minRaise = t.options.BigBlind
	t.phase = PhasePreFlop

	// two passes, in seat order after the button
	for i := 0; i < 2; i++ {
		for _, p := range dealtIn {
			card, err := t.deck.Deal()
			if err != nil {
				return nil, err
			}

			p.hole.AddCard(card)
		}
	}

	t.logger.WithFields(logrus.Fields{
		"table":      t.UUID,
		"hand":       t.handID,
		"players":    len(dealtIn),
		"dealerSeat": t.dealerSeat,
		"commitment": t.deck.Commitment(),
	}).Info("hand started")

	// both blinds may already be all-in
	if t.bettingRoundClosed() {
		if err := t.advancePhase(); err != nil {
			return nil, err
		}
	} else {
		t.currentSeat = t.nextOccupiedSeat(bbSeat, needsToAct)
	}

	return t.PublicSnapshot(), nil
}

// needsToAct returns true if the player still owes a decision this round.
// The acted flag is cleared by a full raise; short all-in raises leave it
// set and therefore do not reopen betting.
func needsToAct(p *Player) bool {
	return p.canAct() && !p.acted
}

// bettingRoundClosed returns true once no live, non-all-in player owes a
// decision
func (t *Table) bettingRoundClosed() bool {
	for _, p := range t.players {
		if needsToAct(p) {
			return false
		}
	}

	return true
}

// canActCount returns the number of live players who are not all-in
func (t *Table) canActCount() int {
	count := 0
	for _, p := range t.players {
		if p.canAct() {
			count++
		}
	}

	return count
}

// advancePhase moves to the next street, dealing the board as needed.
// When fewer than two players can act, streets are dealt back-to-back with
// no betting until the river, then the showdown runs.
func (t *Table) advancePhase() error {
	for {
		if t.phase == PhaseRiver {
			return t.showdown()
		}

		t.phase++
		for len(t.community) < t.phase.communityCards() {
			card, err := t.deck.Deal()
			if err != nil {
				return err
			}

			t.community.AddCard(card)
		}

		for _, p := range t.players {
			p.newRound()
		}

		t.currentBet = 0
		t.minRaise = t.options.BigBlind

		if t.canActCount() >= 2 {
			t.currentSeat = t.nextOccupiedSeat(t.dealerSeat, (*Player).canAct)
			return nil
		}

		t.currentSeat = -1
	}
}
