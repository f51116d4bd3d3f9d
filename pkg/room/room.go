package room

import (
	"errors"
	"sync"
	"time"

	"agentpoker-server/internal/rng"
	"agentpoker-server/pkg/holdem"
	"agentpoker-server/pkg/poker/action"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/timebank"
)

// ErrSpectator is returned when an unseated client tries to act
var ErrSpectator = errors.New("spectators cannot act")

// Room owns one table and serializes all access to it: every mutation runs
// on the room's run loop, so the table itself never sees concurrent calls.
// Rooms for different tables never contend.
type Room struct {
	table  *holdem.Table
	logger logrus.FieldLogger

	// turnTimeout is how long the actor has before being auto-folded;
	// zero disables the timer
	turnTimeout time.Duration
	timeBank    *timebank.TimeBank

	lock    sync.RWMutex
	clients map[*Client]bool

	exec  chan func()
	close chan bool
}

// NewRoom creates a room around a fresh table
func NewRoom(logger logrus.FieldLogger, gen rng.Generator, opts holdem.Options, turnTimeout time.Duration) (*Room, error) {
	table, err := holdem.NewTable(logger, gen, opts)
	if err != nil {
		return nil, err
	}

	return &Room{
		table:       table,
		logger:      logger.WithField("table", table.UUID),
		turnTimeout: turnTimeout,
		timeBank:    timebank.NewTimeBank(),
		clients:     make(map[*Client]bool),
		exec:        make(chan func(), 256),
		close:       make(chan bool),
	}, nil
}

// UUID returns the table identifier
func (r *Room) UUID() string {
	return r.table.UUID
}

// Options returns the table configuration
func (r *Room) Options() holdem.Options {
	return r.table.Options()
}

// StartShift starts the run loop
func (r *Room) StartShift() {
	go r.runLoop()
}

// EndShift terminates the run loop
func (r *Room) EndShift() {
	r.timeBank.Cancel()
	close(r.close)
}

func (r *Room) runLoop() {
	r.logger.Debug("creating room run loop")
	for {
		select {
		case fn := <-r.exec:
			fn()
		case <-r.close:
			r.logger.Debug("terminating room run loop")
			return
		}
	}
}

// do runs fn on the run loop and waits for it to finish
func (r *Room) do(fn func()) {
	done := make(chan struct{})
	r.exec <- func() {
		fn()
		close(done)
	}

	<-done
}

// Seat adds a player to the table
func (r *Room) Seat(walletRef string, buyIn, seat int) (*holdem.SeatAssignment, error) {
	var assignment *holdem.SeatAssignment
	var err error
	r.do(func() {
		assignment, err = r.table.AddPlayer(walletRef, buyIn, seat)
		if err == nil {
			r.broadcast()
		}
	})

	return assignment, err
}

// Leave removes a player, returning their remaining chips. A player who
// leaves mid-hand forfeits what they have committed.
func (r *Room) Leave(playerID string) (int, bool) {
	var chips int
	var ok bool
	r.do(func() {
		chips, ok = r.table.RemovePlayer(playerID)
		if ok {
			r.broadcast()
			r.resetTurnTimer()
		}
	})

	return chips, ok
}

// Deal starts the next hand. The requester must be seated.
func (r *Room) Deal(playerID string) (*holdem.Snapshot, error) {
	var snapshot *holdem.Snapshot
	var err error
	r.do(func() {
		if r.table.Player(playerID) == nil {
			err = holdem.ErrUnknownPlayer
			return
		}

		snapshot, err = r.table.StartHand()
		if err == nil {
			r.broadcast()
			r.resetTurnTimer()
		}
	})

	return snapshot, err
}

// Act performs a betting action for the player. An allIn action is a raise
// of the player's full stack.
func (r *Room) Act(playerID string, act action.Action, amount int) (*holdem.Snapshot, error) {
	var snapshot *holdem.Snapshot
	var err error
	r.do(func() {
		switch act {
		case action.Fold:
			snapshot, err = r.table.Fold(playerID)
		case action.Check:
			snapshot, err = r.table.Check(playerID)
		case action.Call:
			snapshot, err = r.table.Call(playerID)
		case action.Raise:
			snapshot, err = r.table.Raise(playerID, amount)
		case action.AllIn:
			if p := r.table.Player(playerID); p != nil {
				snapshot, err = r.table.Raise(playerID, p.Chips)
			} else {
				err = holdem.ErrUnknownPlayer
			}
		default:
			err = action.ErrInvalidAction
		}

		if err == nil {
			r.broadcast()
			r.resetTurnTimer()
		}
	})

	return snapshot, err
}

// Snapshot returns the viewer's state of the table
func (r *Room) Snapshot(viewerID string) *holdem.Snapshot {
	var snapshot *holdem.Snapshot
	r.do(func() {
		if viewerID == "" {
			snapshot = r.table.PublicSnapshot()
		} else {
			snapshot = r.table.Snapshot(viewerID)
		}
	})

	return snapshot
}

// History returns the completed hands, oldest first
func (r *Room) History() []*holdem.HandSummary {
	var hands []*holdem.HandSummary
	r.do(func() {
		hands = r.table.History()
	})

	return hands
}

// Clients will return a slice of connected (at the time) clients
func (r *Room) Clients() []*Client {
	r.lock.RLock()
	defer r.lock.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}

	return clients
}

// AddClient subscribes a client. A seated player's return clears their
// sitting-out flag.
// This method must return quickly.
func (r *Room) AddClient(client *Client) {
	r.lock.Lock()
	client.room = r
	r.clients[client] = true
	r.lock.Unlock()

	r.exec <- func() {
		if p := r.table.Player(client.playerID); p != nil {
			p.SittingOut = false
		}

		client.Send(newStateResponse(r.snapshotFor(client)))
	}
}

// RemoveClient unsubscribes a client. A seated player with no remaining
// connections sits out future hands until they reconnect.
// This method must return quickly.
func (r *Room) RemoveClient(client *Client) {
	r.lock.Lock()
	delete(r.clients, client)
	r.lock.Unlock()

	r.exec <- func() {
		if client.playerID == "" || r.hasClientFor(client.playerID) {
			return
		}

		if p := r.table.Player(client.playerID); p != nil {
			p.SittingOut = true
		}
	}
}

func (r *Room) hasClientFor(playerID string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for client := range r.clients {
		if client.playerID == playerID {
			return true
		}
	}

	return false
}

// receivedMessage dispatches a websocket action request.
// Called from the connection's read loop, never from the run loop.
func (r *Room) receivedMessage(c *Client, msg *ActionRequest) {
	if c.playerID == "" {
		c.Send(newErrorResponse(msg.Context, ErrSpectator))
		return
	}

	var err error
	if msg.Action == "deal" {
		_, err = r.Deal(c.playerID)
	} else {
		var act action.Action
		if act, err = action.FromString(msg.Action); err == nil {
			_, err = r.Act(c.playerID, act, msg.Amount)
		}
	}

	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
	}
}

// snapshotFor must only be called from the run loop
func (r *Room) snapshotFor(c *Client) *holdem.Snapshot {
	if c.playerID == "" {
		return r.table.PublicSnapshot()
	}

	return r.table.Snapshot(c.playerID)
}

// broadcast must only be called from the run loop
func (r *Room) broadcast() {
	for _, client := range r.Clients() {
		client.Send(newStateResponse(r.snapshotFor(client)))
	}
}

// resetTurnTimer arms the auto-fold timer for the current actor.
// Must only be called from the run loop.
func (r *Room) resetTurnTimer() {
	r.timeBank.Cancel()

	if r.turnTimeout <= 0 {
		return
	}

	actor := r.table.CurrentActor()
	if actor == "" {
		return
	}

	handID := r.table.HandID()
	_ = r.timeBank.NewTask(r.turnTimeout, func(isCancelled bool) {
		if isCancelled {
			return
		}

		r.exec <- func() {
			r.foldExpired(actor, handID)
		}
	})
}

// foldExpired folds the actor whose turn timer lapsed, unless the action
// has already moved on. Must only be called from the run loop.
func (r *Room) foldExpired(actor string, handID int) {
	if r.table.HandID() != handID || r.table.CurrentActor() != actor {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"player": actor,
		"hand":   handID,
	}).Warn("turn timer expired, folding")

	if _, err := r.table.Fold(actor); err != nil {
		r.logger.WithError(err).Error("could not fold expired turn")
		return
	}

	r.broadcast()
	r.resetTurnTimer()
}
