package holdem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Snapshot(t *testing.T) {
	a := assert.New(t)

	table, ids := testTable(t, testOptions(), 200, 200, 200)

	_, err := table.StartHand()
	a.NoError(err)

	bySeat := func(s *Snapshot, seat int) *SeatSnapshot {
		for _, ss := range s.Players {
			if ss.Seat == seat {
				return ss
			}
		}

		return nil
	}

	snapshot := table.Snapshot(ids[1])
	a.Equal(table.UUID, snapshot.TableID)
	a.Equal(1, snapshot.HandID)
	a.Equal(PhasePreFlop, snapshot.Phase)
	a.Equal(15, snapshot.Pot)
	a.Equal(10, snapshot.CurrentBet)
	a.Equal(0, snapshot.DealerSeat)
	a.NotEmpty(snapshot.Commitment)
	a.Equal(3, len(snapshot.Players))

	// the viewer sees only their own hole cards
	a.Equal(2, len(bySeat(snapshot, 1).HoleCards))
	a.Empty(bySeat(snapshot, 0).HoleCards)
	a.Empty(bySeat(snapshot, 2).HoleCards)
	a.Equal(5, bySeat(snapshot, 1).Bet)
	a.True(bySeat(snapshot, 1).LastAction == "")

	// spectators see none
	public := table.PublicSnapshot()
	for seat := 0; seat < 3; seat++ {
		a.Empty(bySeat(public, seat).HoleCards)
	}

	// play to showdown: the board runs all clubs and the hand ties
	actions := []func() (*Snapshot, error){
		func() (*Snapshot, error) { return table.Call(ids[0]) },
		func() (*Snapshot, error) { return table.Call(ids[1]) },
		func() (*Snapshot, error) { return table.Check(ids[2]) },
	}
	for _, act := range actions {
		_, err = act()
		a.NoError(err)
	}

	for table.phase != PhaseShowdown {
		for _, id := range []string{ids[1], ids[2], ids[0]} {
			_, err = table.Check(id)
			a.NoError(err)
		}
	}

	// tabled hands are public after showdown
	public = table.PublicSnapshot()
	a.Equal(PhaseShowdown, public.Phase)
	for seat := 0; seat < 3; seat++ {
		a.Equal(2, len(bySeat(public, seat).HoleCards))
		a.NotNil(bySeat(public, seat).Result)
	}
}

func TestTable_Snapshot_foldedHandStaysHidden(t *testing.T) {
	a := assert.New(t)

	table, ids := testTable(t, testOptions(), 200, 200)

	_, err := table.StartHand()
	a.NoError(err)

	_, err = table.Fold(ids[1])
	a.NoError(err)
	a.Equal(PhaseShowdown, table.phase)

	// a hand won without showdown reveals nobody's cards
	public := table.PublicSnapshot()
	for _, ss := range public.Players {
		a.Empty(ss.HoleCards)
		a.Nil(ss.Result)
	}
}
