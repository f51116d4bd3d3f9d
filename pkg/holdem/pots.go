package holdem

import "sort"

// Pot is a segment of the hand's chips with its eligible winners.
// The first pot is the main pot; later pots are side pots created by
// all-in players with shallower stacks.
type Pot struct {
	Amount   int
	Eligible []*Player
}

// buildPots segments the chips committed this hand into a main pot and side
// pots: one layer per distinct live contribution total, each eligible
// only to live players who contributed up to that threshold. Folded
// contributions stay in the layers they reached; forfeits from players who
// left mid-hand are folded into the main pot.
func (t *Table) buildPots() []*Pot {
	live := t.livePlayers()

	// one layer per distinct live contribution. A short all-in raise can
	// leave the other live players at a lower total than the all-in, so
	// every live total is a boundary; the uncalled excess then forms a
	// layer only its owner is eligible for.
	thresholdSet := make(map[int]bool)
	for _, p := range live {
		thresholdSet[p.totalBet] = true
	}

	thresholds := make([]int, 0, len(thresholdSet))
	for threshold := range thresholdSet {
		thresholds = append(thresholds, threshold)
	}
	sort.Ints(thresholds)

	pots := make([]*Pot, 0, len(thresholds))
	total := 0
	prev := 0
	for _, threshold := range thresholds {
		pot := &Pot{}
		for _, p := range t.players {
			contribution := p.totalBet
			if contribution > threshold {
				contribution = threshold
			}

			if contribution > prev {
				pot.Amount += contribution - prev
			}
		}

		for _, p := range live {
			if p.totalBet >= threshold {
				pot.Eligible = append(pot.Eligible, p)
			}
		}

		total += pot.Amount
		pots = append(pots, pot)
		prev = threshold
	}

	// anything not accounted for by a seated player's contributions
	// (players removed mid-hand) belongs to the main pot
	if leftover := t.pot - total; leftover > 0 {
		pots[0].Amount += leftover
	}

	return pots
}

// payout pays each pot to the strongest eligible hands, splitting evenly on
// genuine ties with odd chips going to the earliest seat after the dealer.
// The rake is deducted from the main pot first. Returns winnings by player
// id.
func (t *Table) payout(pots []*Pot, rake int) map[string]int {
	winnings := make(map[string]int)

	for _, pot := range pots {
		amount := pot.Amount
		if rake > 0 {
			taken := rake
			if taken > amount {
				taken = amount
			}

			amount -= taken
			rake -= taken
		}

		if amount == 0 || len(pot.Eligible) == 0 {
			continue
		}

		winners := bestHands(pot.Eligible)
		share := amount / len(winners)
		odd := amount % len(winners)

		// Eligible is already in seat order after the dealer, so odd
		// chips land on the earliest seats
		for i, winner := range winners {
			won := share
			if i < odd {
				won++
			}

			winner.Chips += won
			winnings[winner.ID] += won
		}
	}

	return winnings
}

// bestHands returns the players tied for the strongest evaluated hand,
// preserving order
func bestHands(players []*Player) []*Player {
	var winners []*Player
	for _, p := range players {
		if len(winners) == 0 {
			winners = []*Player{p}
			continue
		}

		cmp := p.result.Compare(winners[0].result)
		if cmp > 0 {
			winners = []*Player{p}
		} else if cmp == 0 {
			winners = append(winners, p)
		}
	}

	return winners
}

// rake returns the house cut for a pot of the given size
func (t *Table) rake(pot int) int {
	rake := int(float64(pot) * t.options.RakeRate)
	if rake > t.options.RakeCap {
		rake = t.options.RakeCap
	}

	return rake
}
