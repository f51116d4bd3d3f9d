package room

import (
	"sync"
	"time"

	"agentpoker-server/internal/rng"
	"agentpoker-server/pkg/holdem"

	"github.com/sirupsen/logrus"
)

// Manager tracks the open rooms and dispatches websocket clients to them
type Manager struct {
	logger logrus.FieldLogger
	gen    rng.Generator

	lock  sync.RWMutex
	rooms map[string]*Room

	connect    chan *Client
	disconnect chan *Client
}

// NewManager returns a new manager.
// Pass rng.Crypto{} as the generator outside of tests.
func NewManager(logger logrus.FieldLogger, gen rng.Generator) *Manager {
	return &Manager{
		logger:     logger,
		gen:        gen,
		rooms:      make(map[string]*Room),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// StartShift starts the manager's run loop
func (m *Manager) StartShift() {
	go m.runLoop()
}

func (m *Manager) runLoop() {
	for {
		select {
		case client := <-m.connect:
			m.logger.WithField("client", client.String()).Debug("client connected")
			room := m.Room(client.tableUUID)
			if room == nil {
				m.logger.WithField("uuid", client.tableUUID).WithField("type", "exception").Error("table not found")
				continue
			}

			room.AddClient(client)
		case client := <-m.disconnect:
			m.logger.WithField("client", client.String()).Debug("client disconnected")
			room := m.Room(client.tableUUID)
			if room == nil {
				continue
			}

			room.RemoveClient(client)
		}
	}
}

// CreateRoom opens a room with its own table and starts its run loop
func (m *Manager) CreateRoom(opts holdem.Options, turnTimeout time.Duration) (*Room, error) {
	room, err := NewRoom(m.logger, m.gen, opts, turnTimeout)
	if err != nil {
		return nil, err
	}

	room.StartShift()

	m.lock.Lock()
	m.rooms[room.UUID()] = room
	m.lock.Unlock()

	m.logger.WithField("table", room.UUID()).Info("room opened")
	return room, nil
}

// Room returns the room for the table UUID, or nil
func (m *Manager) Room(uuid string) *Room {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.rooms[uuid]
}

// Rooms returns all open rooms
func (m *Manager) Rooms() []*Room {
	m.lock.RLock()
	defer m.lock.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}

	return rooms
}

// CloseRoom ends a room's run loop and forgets it
func (m *Manager) CloseRoom(uuid string) bool {
	m.lock.Lock()
	room, ok := m.rooms[uuid]
	if ok {
		delete(m.rooms, uuid)
	}
	m.lock.Unlock()

	if !ok {
		return false
	}

	room.EndShift()
	m.logger.WithField("table", uuid).Info("room closed")
	return true
}

// ClientConnected is called when a client connects to the server
func (m *Manager) ClientConnected(client *Client) {
	m.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (m *Manager) ClientDisconnected(client *Client) {
	m.disconnect <- client
}
