package holdem

import (
	"agentpoker-server/internal/rng"
	"agentpoker-server/pkg/deck"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Table owns all per-table mutable state: seats, players, pot, phase, and
// the current actor. It runs the betting state machine and resolves
// showdowns.
//
// A Table is not safe for concurrent use. The caller must serialize all
// calls for one table (see pkg/room); calls for different tables never
// contend.
type Table struct {
	// UUID identifies the table
	UUID string

	options Options
	logger  logrus.FieldLogger
	gen     rng.Generator

	seats   []string // seat index -> player id, or "" if empty
	players map[string]*Player

	handID      int
	phase       Phase
	deck        *deck.Deck
	community   deck.Hand
	pot         int
	dealerSeat  int
	currentSeat int // -1 when no player can act
	currentBet  int
	minRaise    int

	lastReveal *deck.Reveal
	history    *History
}

// SeatAssignment is returned when a player is seated
type SeatAssignment struct {
	Seat     int    `json:"seat"`
	PlayerID string `json:"playerId"`
}

// NewTable returns a table with no players seated.
// Pass rng.Crypto{} as the generator outside of tests.
func NewTable(logger logrus.FieldLogger, gen rng.Generator, opts Options) (*Table, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	return &Table{
		UUID:        uuid.New().String(),
		options:     opts,
		logger:      logger,
		gen:         gen,
		seats:       make([]string, opts.Seats),
		players:     make(map[string]*Player),
		phase:       PhaseWaiting,
		dealerSeat:  opts.Seats - 1,
		currentSeat: -1,
		history:     newHistory(opts.HandHistorySize),
	}, nil
}

// Options returns the table configuration
func (t *Table) Options() Options {
	return t.options
}

// AddPlayer seats a new player with the given buy-in. The buy-in must have
// already been debited from the player's wallet by the caller.
// requestedSeat may be -1 for the first free seat; an occupied requested
// seat falls back to the first free one.
func (t *Table) AddPlayer(walletRef string, buyIn, requestedSeat int) (*SeatAssignment, error) {
	if buyIn < t.options.MinBuyIn || buyIn > t.options.MaxBuyIn {
		return nil, ErrInvalidBuyIn
	}

	seat := -1
	if requestedSeat >= 0 && requestedSeat < len(t.seats) && t.seats[requestedSeat] == "" {
		seat = requestedSeat
	} else {
		for i, id := range t.seats {
			if id == "" {
				seat = i
				break
			}
		}
	}

	if seat < 0 {
		return nil, ErrTableFull
	}

	player := &Player{
		ID:        uuid.New().String(),
		WalletRef: walletRef,
		Seat:      seat,
		Chips:     buyIn,
	}

	t.seats[seat] = player.ID
	t.players[player.ID] = player

	t.logger.WithFields(logrus.Fields{
		"table":  t.UUID,
		"player": player.ID,
		"seat":   seat,
		"buyIn":  buyIn,
	}).Info("player seated")

	return &SeatAssignment{Seat: seat, PlayerID: player.ID}, nil
}

// RemovePlayer vacates the player's seat and returns their remaining chips
// for external crediting. Returns false if the id is unknown.
// A player removed mid-hand forfeits what they have already committed.
func (t *Table) RemovePlayer(id string) (int, bool) {
	player, ok := t.players[id]
	if !ok {
		return 0, false
	}

	if t.handActive() && player.inHand() {
		t.foldOutOfTurn(player)
	}

	t.seats[player.Seat] = ""
	delete(t.players, id)

	t.logger.WithFields(logrus.Fields{
		"table":  t.UUID,
		"player": id,
		"chips":  player.Chips,
	}).Info("player removed")

	return player.Chips, true
}

// Player returns the player with the given id, or nil
func (t *Table) Player(id string) *Player {
	return t.players[id]
}

// HandID returns the current hand counter
func (t *Table) HandID() int {
	return t.handID
}

// CurrentActor returns the id of the player on turn, or "" when nobody is
func (t *Table) CurrentActor() string {
	if t.currentSeat < 0 {
		return ""
	}

	return t.seats[t.currentSeat]
}

// handActive returns true if a hand is being played
func (t *Table) handActive() bool {
	return t.phase >= PhasePreFlop && t.phase < PhaseShowdown
}

// nextOccupiedSeat returns the first seat after from (wrapping) whose player
// satisfies the predicate, or -1 if none does
func (t *Table) nextOccupiedSeat(from int, predicate func(*Player) bool) int {
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		id := t.seats[seat]
		if id == "" {
			continue
		}

		if predicate(t.players[id]) {
			return seat
		}
	}

	return -1
}

// livePlayers returns the non-folded, dealt-in players in seat order after
// the dealer
func (t *Table) livePlayers() []*Player {
	return t.playersInSeatOrder(func(p *Player) bool { return p.inHand() })
}

// playersInSeatOrder returns matching players starting one seat after the
// dealer, wrapping
func (t *Table) playersInSeatOrder(predicate func(*Player) bool) []*Player {
	players := make([]*Player, 0, len(t.players))
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		seat := (t.dealerSeat + i) % n
		id := t.seats[seat]
		if id == "" {
			continue
		}

		if p := t.players[id]; predicate(p) {
			players = append(players, p)
		}
	}

	return players
}

// commitChips moves chips from the player's stack into the pot, capped at
// the stack, marking the player all-in when the stack empties
func (t *Table) commitChips(p *Player, amount int) int {
	if amount >= p.Chips {
		amount = p.Chips
	}

	p.Chips -= amount
	p.bet += amount
	p.totalBet += amount
	t.pot += amount

	if p.Chips == 0 {
		p.allIn = true
	}

	return amount
}
