package deck

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"agentpoker-server/internal/rng"
)

// ErrEmptyDeck is an error when Deal() is attempted and there are no more cards
var ErrEmptyDeck = errors.New("no cards remain in the deck")

// ErrAlreadyRevealed is an error when Reveal() is called more than once
var ErrAlreadyRevealed = errors.New("deck has already been revealed")

const saltSize = 32

// Deck is a shuffled, commitment-sealed deck of 52 cards.
//
// The commitment is a SHA-256 hash over the full shuffled ordering plus a
// private salt, computed before any card is dealt. The salt is revealed only
// at hand end so anyone holding the commitment can verify no card was swapped
// mid-hand.
type Deck struct {
	cards []*Card
	dealt []*Card

	salt       []byte
	commitment string
	revealed   bool
}

// Reveal holds the values needed to independently verify a deck's commitment
type Reveal struct {
	Commitment string `json:"commitment"`
	Salt       string `json:"salt"`
	Remaining  Hand   `json:"remaining"`
}

// New returns a shuffled deck sealed by a commitment.
// The shuffle is a Fisher-Yates permutation driven by the provided generator;
// pass rng.Crypto{} outside of tests.
func New(gen rng.Generator) *Deck {
	cards := make([]*Card, 0, 52)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	for i := len(cards) - 1; i > 0; i-- {
		j := gen.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	salt := rng.Salt(saltSize)

	return &Deck{
		cards:      cards,
		dealt:      make([]*Card, 0, 52),
		salt:       salt,
		commitment: commitment(cards, salt),
	}
}

// Commitment returns the hash published before any card is exposed
func (d *Deck) Commitment() string {
	return d.commitment
}

// Deal removes and returns the next card in the committed order.
// Returns ErrEmptyDeck if no cards remain. With 52 cards against at most
// 2*seats+5 dealt per hand this cannot happen in practice, but it is checked.
func (d *Deck) Deal() (*Card, error) {
	if len(d.cards) == 0 {
		return nil, ErrEmptyDeck
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	d.dealt = append(d.dealt, card)

	return card, nil
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.cards)
}

// Reveal returns the salt, commitment, and still-undealt cards.
// May only be called once, at hand conclusion. The original ordering is
// reconstructed as dealt-cards-in-order followed by the remaining cards.
func (d *Deck) Reveal() (*Reveal, error) {
	if d.revealed {
		return nil, ErrAlreadyRevealed
	}

	d.revealed = true
	remaining := make(Hand, len(d.cards))
	copy(remaining, d.cards)

	return &Reveal{
		Commitment: d.commitment,
		Salt:       hex.EncodeToString(d.salt),
		Remaining:  remaining,
	}, nil
}

// Verify recomputes the commitment from a reveal and the cards dealt during
// the hand, in deal order. Returns true if the deck was not altered after
// commitment.
func Verify(commitment string, dealt []*Card, remaining []*Card, saltHex string) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	ordering := make([]*Card, 0, len(dealt)+len(remaining))
	ordering = append(ordering, dealt...)
	ordering = append(ordering, remaining...)

	return commitment == Commitment(ordering, salt)
}

// Commitment computes the commitment hash for an ordering and salt
func Commitment(ordering []*Card, salt []byte) string {
	return commitment(ordering, salt)
}

func commitment(ordering []*Card, salt []byte) string {
	hash := sha256.New()
	_, _ = hash.Write([]byte(CardsToString(ordering)))
	_, _ = hash.Write(salt)

	return hex.EncodeToString(hash.Sum(nil))
}
