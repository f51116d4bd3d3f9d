package room

import (
	"testing"
	"time"

	"agentpoker-server/internal/rng"
	"agentpoker-server/pkg/holdem"
	"agentpoker-server/pkg/poker/action"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testRoomOptions() holdem.Options {
	opts := holdem.DefaultOptions()
	opts.MinBuyIn = 20
	opts.RakeRate = 0
	opts.RakeCap = 0
	return opts
}

func testRoom(t *testing.T, turnTimeout time.Duration, buyIns ...int) (*Room, []string) {
	t.Helper()

	r, err := NewRoom(logrus.StandardLogger(), rng.Zeros{}, testRoomOptions(), turnTimeout)
	assert.NoError(t, err)
	r.StartShift()
	t.Cleanup(r.EndShift)

	ids := make([]string, len(buyIns))
	for i, buyIn := range buyIns {
		assignment, err := r.Seat("wallet", buyIn, i)
		assert.NoError(t, err)
		ids[i] = assignment.PlayerID
	}

	return r, ids
}

func TestRoom_playsAHand(t *testing.T) {
	a := assert.New(t)

	r, ids := testRoom(t, 0, 200, 200)

	_, err := r.Deal("intruder")
	a.Equal(holdem.ErrUnknownPlayer, err)

	snapshot, err := r.Deal(ids[0])
	a.NoError(err)
	a.Equal(holdem.PhasePreFlop, snapshot.Phase)
	a.Equal(15, snapshot.Pot)

	_, err = r.Deal(ids[0])
	a.Equal(holdem.ErrHandInProgress, err)

	// heads-up: the small blind acts first
	_, err = r.Act(ids[0], action.Fold, 0)
	a.Equal(holdem.ErrOutOfTurn, err)

	snapshot, err = r.Act(ids[1], action.Raise, 45)
	a.NoError(err)
	a.Equal(50, snapshot.CurrentBet)

	snapshot, err = r.Act(ids[0], action.Fold, 0)
	a.NoError(err)
	a.Equal(holdem.PhaseShowdown, snapshot.Phase)

	hands := r.History()
	a.Equal(1, len(hands))
	a.Equal([]string{ids[1]}, hands[0].Winners)
}

func TestRoom_allInAction(t *testing.T) {
	a := assert.New(t)

	r, ids := testRoom(t, 0, 200, 200)

	_, err := r.Deal(ids[0])
	a.NoError(err)

	snapshot, err := r.Act(ids[1], action.AllIn, 0)
	a.NoError(err)
	a.Equal(200, snapshot.CurrentBet)

	_, err = r.Act(ids[0], "jump", 0)
	a.Equal(action.ErrInvalidAction, err)

	snapshot, err = r.Act(ids[0], action.Call, 0)
	a.NoError(err)

	// both all-in: the board ran out and the split pot went back
	a.Equal(holdem.PhaseShowdown, snapshot.Phase)
	a.Zero(snapshot.Pot)
}

func TestRoom_snapshotVisibility(t *testing.T) {
	a := assert.New(t)

	r, ids := testRoom(t, 0, 200, 200)

	_, err := r.Deal(ids[0])
	a.NoError(err)

	bySeat := func(s *holdem.Snapshot, seat int) *holdem.SeatSnapshot {
		for _, ss := range s.Players {
			if ss.Seat == seat {
				return ss
			}
		}

		return nil
	}

	own := r.Snapshot(ids[0])
	a.Equal(2, len(bySeat(own, 0).HoleCards))
	a.Empty(bySeat(own, 1).HoleCards)

	public := r.Snapshot("")
	a.Empty(bySeat(public, 0).HoleCards)
	a.Empty(bySeat(public, 1).HoleCards)
}

func TestRoom_turnTimerAutoFolds(t *testing.T) {
	a := assert.New(t)

	r, ids := testRoom(t, time.Millisecond*50, 200, 200)

	_, err := r.Deal(ids[0])
	a.NoError(err)

	// the small blind never acts and times out; heads-up that ends the
	// hand in the big blind's favor
	a.Eventually(func() bool {
		return r.Snapshot("").Phase == holdem.PhaseShowdown
	}, time.Second*2, time.Millisecond*10)

	hands := r.History()
	a.Equal(1, len(hands))
	a.Equal([]string{ids[0]}, hands[0].Winners)
}

func TestRoom_clientSubscriptions(t *testing.T) {
	a := assert.New(t)

	r, ids := testRoom(t, 0, 200, 200)

	player := NewClient(nil, r.UUID(), ids[0])
	spectator := NewClient(nil, r.UUID(), "")
	r.AddClient(player)
	r.AddClient(spectator)

	// both receive an initial state frame
	for _, c := range []*Client{player, spectator} {
		msg := (<-c.SendChan()).(*Response)
		a.Equal("state", msg.Key)
	}

	// actions over the websocket flow through the same engine
	player.ReceivedMessage(&ActionRequest{Action: "deal", Context: "abc"})

	msg := (<-player.SendChan()).(*Response)
	a.Equal("state", msg.Key)
	a.Equal(holdem.PhasePreFlop, msg.Value.(*holdem.Snapshot).Phase)

	// a spectator cannot act
	spectator.ReceivedMessage(&ActionRequest{Action: "deal", Context: "xyz"})
	for {
		msg := (<-spectator.SendChan()).(*Response)
		if msg.Key == "error" {
			a.Equal("xyz", msg.Context)
			a.Equal(ErrSpectator.Error(), msg.Value)
			break
		}
	}

	// an invalid action is rejected with the request context echoed back
	player.ReceivedMessage(&ActionRequest{Action: "jump", Context: "req-1"})
	for {
		msg := (<-player.SendChan()).(*Response)
		if msg.Key == "error" {
			a.Equal("req-1", msg.Context)
			break
		}
	}

	// a departed player with no other connections sits out
	r.RemoveClient(player)
	a.Eventually(func() bool {
		for _, ss := range r.Snapshot("").Players {
			if ss.PlayerID == ids[0] {
				return ss.SittingOut
			}
		}

		return false
	}, time.Second, time.Millisecond*10)
}
