package holdem

import (
	"agentpoker-server/pkg/deck"
	"agentpoker-server/pkg/poker/handeval"

	"github.com/sirupsen/logrus"
)

// finishEarly awards the pot to the last player standing.
// The remaining community cards are never dealt and no hole cards are
// revealed.
func (t *Table) finishEarly(winner *Player) error {
	rake := t.rake(t.pot)
	won := t.pot - rake
	winner.Chips += won
	t.pot = 0

	t.phase = PhaseShowdown
	t.currentSeat = -1

	reveal, err := t.deck.Reveal()
	if err != nil {
		return err
	}
	t.lastReveal = reveal

	t.logger.WithFields(logrus.Fields{
		"table":  t.UUID,
		"hand":   t.handID,
		"winner": winner.ID,
		"won":    won,
		"rake":   rake,
	}).Info("hand won by default")

	t.recordHand([]*Player{winner}, map[string]int{winner.ID: won}, rake, false)
	return nil
}

// showdown evaluates every live player's best seven-card hand, pays the
// pots, and reveals the deck's salt for fairness verification
func (t *Table) showdown() error {
	t.phase = PhaseShowdown
	t.currentSeat = -1

	live := t.livePlayers()
	for _, p := range live {
		cards := append(p.hole.Clone(), t.community...)
		result, err := handeval.Evaluate(cards)
		if err != nil {
			return err
		}

		p.result = result
	}

	potTotal := t.pot
	rake := t.rake(potTotal)
	pots := t.buildPots()
	winnings := t.payout(pots, rake)
	t.pot = 0

	reveal, err := t.deck.Reveal()
	if err != nil {
		return err
	}
	t.lastReveal = reveal

	winners := bestHands(pots[0].Eligible)
	t.logger.WithFields(logrus.Fields{
		"table":   t.UUID,
		"hand":    t.handID,
		"pot":     potTotal,
		"rake":    rake,
		"winners": len(winners),
		"best":    winners[0].result.String(),
	}).Info("showdown complete")

	t.recordHand(winners, winnings, rake, true)
	return nil
}

// LastReveal returns the deck reveal for the most recently completed hand,
// or nil while a hand is running
func (t *Table) LastReveal() *deck.Reveal {
	return t.lastReveal
}
