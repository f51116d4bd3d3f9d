package mux

import (
	"errors"
	"net/http"
	"time"

	"agentpoker-server/internal/config"
	"agentpoker-server/internal/jwt"
	"agentpoker-server/pkg/holdem"
	"agentpoker-server/pkg/poker/action"
	"agentpoker-server/pkg/room"
)

// tableSummary is the list-level view of a room
type tableSummary struct {
	UUID       string       `json:"uuid"`
	Seats      int          `json:"seats"`
	SeatsTaken int          `json:"seatsTaken"`
	SmallBlind int          `json:"smallBlind"`
	BigBlind   int          `json:"bigBlind"`
	MinBuyIn   int          `json:"minBuyIn"`
	MaxBuyIn   int          `json:"maxBuyIn"`
	Phase      holdem.Phase `json:"phase"`
	HandID     int          `json:"handId"`
}

func summarize(rm *room.Room) tableSummary {
	opts := rm.Options()
	snapshot := rm.Snapshot("")

	return tableSummary{
		UUID:       rm.UUID(),
		Seats:      opts.Seats,
		SeatsTaken: len(snapshot.Players),
		SmallBlind: opts.SmallBlind,
		BigBlind:   opts.BigBlind,
		MinBuyIn:   opts.MinBuyIn,
		MaxBuyIn:   opts.MaxBuyIn,
		Phase:      snapshot.Phase,
		HandID:     snapshot.HandID,
	}
}

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := m.manager.Rooms()
		summaries := make([]tableSummary, 0, len(rooms))
		for _, rm := range rooms {
			summaries = append(summaries, summarize(rm))
		}

		writeJSON(w, http.StatusOK, summaries)
	}
}

type postTablePayload struct {
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
}

// tableOptions converts the server-wide table configuration plus a stake
// into engine options. Configured buy-in bounds are multiples of the big
// blind.
func tableOptions(cfg config.TableConfig, stake config.Stake) holdem.Options {
	opts := holdem.DefaultOptions()
	opts.Seats = cfg.Seats
	opts.SmallBlind = stake.SmallBlind
	opts.BigBlind = stake.BigBlind
	opts.MinBuyIn = cfg.MinBuyIn * stake.BigBlind
	opts.MaxBuyIn = cfg.MaxBuyIn * stake.BigBlind
	opts.RakeRate = cfg.RakeRate
	opts.RakeCap = cfg.RakeCap
	return opts
}

// OpenConfiguredTables opens one table per configured stake level. These
// tables live for the lifetime of the server.
func OpenConfiguredTables(manager *room.Manager) error {
	cfg := config.Instance().Table
	for _, stake := range cfg.Stakes {
		if _, err := manager.CreateRoom(tableOptions(cfg, stake), time.Second*time.Duration(cfg.TurnTimeout)); err != nil {
			return err
		}
	}

	return nil
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		cfg := config.Instance().Table
		if len(cfg.Stakes) == 0 {
			writeJSONError(w, http.StatusInternalServerError, errors.New("no stakes configured"))
			return
		}

		// an empty payload means the default stake
		stake := cfg.Stakes[0]
		if pp.SmallBlind > 0 || pp.BigBlind > 0 {
			found := false
			for _, s := range cfg.Stakes {
				if s.SmallBlind == pp.SmallBlind && s.BigBlind == pp.BigBlind {
					stake = s
					found = true
					break
				}
			}

			if !found {
				writeJSONError(w, http.StatusBadRequest, errors.New("no such stake level"))
				return
			}
		}

		rm, err := m.manager.CreateRoom(tableOptions(cfg, stake), time.Second*time.Duration(cfg.TurnTimeout))
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, summarize(rm))
	}
}

func (m *Mux) getTableUUID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*room.Room)

		// seated players get their own cards back
		viewerID, _ := m.sessionPlayerID(r)
		writeJSON(w, http.StatusOK, rm.Snapshot(viewerID))
	})
}

func (m *Mux) getTableUUIDHistory() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*room.Room)
		writeJSON(w, http.StatusOK, rm.History())
	})
}

type postSeatPayload struct {
	WalletRef string `json:"walletRef"`
	BuyIn     int    `json:"buyIn"`
	// Seat is the requested seat; omit for the first free one
	Seat *int `json:"seat"`
}

type postSeatResponse struct {
	Seat     int    `json:"seat"`
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
}

func (m *Mux) postTableUUIDSeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*room.Room)

		var pp postSeatPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if pp.WalletRef == "" {
			writeJSONError(w, http.StatusBadRequest, errors.New("walletRef is required"))
			return
		}

		seat := -1
		if pp.Seat != nil {
			seat = *pp.Seat
		}

		assignment, err := rm.Seat(pp.WalletRef, pp.BuyIn, seat)
		if err != nil {
			writeRuleError(w, err)
			return
		}

		token, err := jwt.Sign(rm.UUID(), assignment.PlayerID)
		if err != nil {
			// the seat is unusable without a session
			rm.Leave(assignment.PlayerID)
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, postSeatResponse{
			Seat:     assignment.Seat,
			PlayerID: assignment.PlayerID,
			Token:    token,
		})
	})
}

type deleteSeatResponse struct {
	Chips int `json:"chips"`
}

func (m *Mux) deleteTableUUIDSeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*room.Room)
		playerID := r.Context().Value(ctxPlayerIDKey).(string)

		chips, ok := rm.Leave(playerID)
		if !ok {
			writeJSONError(w, http.StatusNotFound, errors.New("player is no longer seated"))
			return
		}

		writeJSON(w, http.StatusOK, deleteSeatResponse{Chips: chips})
	})
}

func (m *Mux) postTableUUIDDeal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*room.Room)
		playerID := r.Context().Value(ctxPlayerIDKey).(string)

		snapshot, err := rm.Deal(playerID)
		if err != nil {
			writeRuleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	})
}

type postActionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (m *Mux) postTableUUIDAction() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*room.Room)
		playerID := r.Context().Value(ctxPlayerIDKey).(string)

		var pp postActionPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		act, err := action.FromString(pp.Action)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		snapshot, err := rm.Act(playerID, act, pp.Amount)
		if err != nil {
			writeRuleError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	})
}
