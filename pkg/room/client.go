package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a websocket subscriber to a single table. A client with an
// empty player id is a spectator: it receives public state only and may
// not act.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	room *Room

	tableUUID string
	playerID  string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, tableUUID, playerID string) *Client {
	return &Client{
		send:      make(chan interface{}, 256),
		Close:     make(chan string),
		Conn:      conn,
		tableUUID: tableUUID,
		playerID:  playerID,
	}
}

// Send sends a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	if c.playerID == "" {
		return fmt.Sprintf("spectator:%s", c.tableUUID)
	}

	return fmt.Sprintf("%s:%s", c.playerID, c.tableUUID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *ActionRequest) {
	if c.room == nil {
		logrus.WithField("msg", msg).Warn("received message, but room not found")
		return
	}

	c.room.receivedMessage(c, msg)
}
