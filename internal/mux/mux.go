package mux

import (
	"context"
	"net/http"
	"strings"

	"agentpoker-server/internal/jwt"
	"agentpoker-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxPlayerIDKey ctxKey = iota
	ctxRoomKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	manager *room.Manager

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, manager *room.Manager) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		manager: manager,
	}

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
		r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())
	}

	tr := this.Router.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
	tr.Use(this.tableMiddleware)

	// per-table endpoints that work without a seat session
	{
		tr.Methods(http.MethodGet).Path("").Handler(this.getTableUUID())
		tr.Methods(http.MethodGet).Path("/history").Handler(this.getTableUUIDHistory())
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())
		tr.Methods(http.MethodPost).Path("/seat").Handler(this.postTableUUIDSeat())
	}

	// requires a seat session for this table
	{
		r := tr.NewRoute().Subrouter()
		r.Use(this.authMiddleware)
		this.authRouter = r

		r.Methods(http.MethodPost).Path("/deal").Handler(this.postTableUUIDDeal())
		r.Methods(http.MethodPost).Path("/action").Handler(this.postTableUUIDAction())
		r.Methods(http.MethodDelete).Path("/seat").Handler(this.deleteTableUUIDSeat())
	}

	return this
}

// tableMiddleware resolves the table UUID to its room
func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := gmux.Vars(r)["uuid"]
		rm := m.manager.Room(uuid)
		if rm == nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxRoomKey, rm)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// authMiddleware requires a seat-session token issued for this table.
// Depends on tableMiddleware.
func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := m.sessionPlayerID(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerIDKey, playerID)
		w.Header().Set("AgentPoker-PlayerID", playerID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// sessionPlayerID extracts and validates the seat session, if any.
// The token's table claim must match the room being addressed.
func (m *Mux) sessionPlayerID(r *http.Request) (string, bool) {
	token := r.FormValue("access_token")
	if token == "" {
		authHeader := strings.Split(r.Header.Get("Authorization"), " ")
		if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
			return "", false
		}

		token = authHeader[1]
	}

	tableID, playerID, err := jwt.ValidSession(token)
	if err != nil {
		return "", false
	}

	rm := r.Context().Value(ctxRoomKey).(*room.Room)
	if tableID != rm.UUID() {
		return "", false
	}

	return playerID, true
}
