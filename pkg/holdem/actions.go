package holdem

import (
	"agentpoker-server/pkg/poker/action"

	"github.com/sirupsen/logrus"
)

// Fold marks the player folded. Chips already committed are not returned.
func (t *Table) Fold(id string) (*Snapshot, error) {
	p, err := t.actingPlayer(id)
	if err != nil {
		return nil, err
	}

	p.folded = true
	p.acted = true
	p.lastAction = action.Fold
	t.logAction(p, action.Fold, 0)

	if err := t.completeAction(); err != nil {
		return nil, err
	}

	return t.Snapshot(id), nil
}

// Check passes the action without betting.
// Fails with ErrCannotCheck if the player has a bet to match.
func (t *Table) Check(id string) (*Snapshot, error) {
	p, err := t.actingPlayer(id)
	if err != nil {
		return nil, err
	}

	if p.bet < t.currentBet {
		return nil, ErrCannotCheck
	}

	p.acted = true
	p.lastAction = action.Check
	t.logAction(p, action.Check, 0)

	if err := t.completeAction(); err != nil {
		return nil, err
	}

	return t.Snapshot(id), nil
}

// Call matches the table's current bet, going all-in if the stack is short.
// Fails with ErrNothingToCall if there is no deficit.
func (t *Table) Call(id string) (*Snapshot, error) {
	p, err := t.actingPlayer(id)
	if err != nil {
		return nil, err
	}

	deficit := t.currentBet - p.bet
	if deficit <= 0 {
		return nil, ErrNothingToCall
	}

	paid := t.commitChips(p, deficit)
	p.acted = true
	p.lastAction = action.Call
	if p.allIn {
		p.lastAction = action.AllIn
	}

	t.logAction(p, p.lastAction, paid)

	if err := t.completeAction(); err != nil {
		return nil, err
	}

	return t.Snapshot(id), nil
}

// Raise commits amount chips this action: the call portion plus the raise
// portion. The raise portion must meet the minimum raise unless the player
// is going all-in; a short all-in raise does not reopen betting for players
// who already matched the prior bet.
func (t *Table) Raise(id string, amount int) (*Snapshot, error) {
	p, err := t.actingPlayer(id)
	if err != nil {
		return nil, err
	}

	if amount > p.Chips {
		return nil, ErrInsufficientChips
	}

	newBet := p.bet + amount
	raisePortion := newBet - t.currentBet
	isAllIn := amount == p.Chips

	if raisePortion < t.minRaise && !isAllIn {
		return nil, ErrBelowMinRaise
	}

	t.commitChips(p, amount)
	p.acted = true

	if raisePortion >= t.minRaise {
		// full raise: betting reopens for everyone else
		t.minRaise = raisePortion
		t.currentBet = newBet
		for _, other := range t.players {
			if other != p && other.canAct() {
				other.acted = false
			}
		}
	} else if newBet > t.currentBet {
		// short all-in still sets the amount to match
		t.currentBet = newBet
	}

	p.lastAction = action.Raise
	if p.allIn {
		p.lastAction = action.AllIn
	}

	t.logAction(p, p.lastAction, newBet)

	if err := t.completeAction(); err != nil {
		return nil, err
	}

	return t.Snapshot(id), nil
}

// actingPlayer validates that the hand is active and it is id's turn
func (t *Table) actingPlayer(id string) (*Player, error) {
	if !t.handActive() {
		return nil, ErrNoActiveHand
	}

	p, ok := t.players[id]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	if t.currentSeat < 0 || p.Seat != t.currentSeat {
		return nil, ErrOutOfTurn
	}

	return p, nil
}

// completeAction advances the engine after any action: early win when one
// player remains, next street when the round closes, otherwise the next
// actor
func (t *Table) completeAction() error {
	live := t.livePlayers()
	if len(live) == 1 {
		return t.finishEarly(live[0])
	}

	if t.bettingRoundClosed() {
		return t.advancePhase()
	}

	t.currentSeat = t.nextOccupiedSeat(t.currentSeat, needsToAct)
	return nil
}

// foldOutOfTurn folds a player who is leaving mid-hand
func (t *Table) foldOutOfTurn(p *Player) {
	wasTurn := p.Seat == t.currentSeat
	p.folded = true
	p.acted = true
	p.lastAction = action.Fold

	live := t.livePlayers()
	if len(live) == 1 {
		_ = t.finishEarly(live[0])
		return
	}

	if wasTurn {
		if t.bettingRoundClosed() {
			_ = t.advancePhase()
		} else {
			t.currentSeat = t.nextOccupiedSeat(p.Seat, needsToAct)
		}
	}
}

func (t *Table) logAction(p *Player, a action.Action, amount int) {
	t.logger.WithFields(logrus.Fields{
		"table":  t.UUID,
		"hand":   t.handID,
		"player": p.ID,
		"seat":   p.Seat,
	}).Debug(a.LogMessage(amount))
}
