package ws

import (
	"sync"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	maxMessageSize = 4096
)

type Client struct {
	Scope       classpath.Scope
	StudentCode string
	StudentName string
	Avatar      domain.EquippedSet

	Conn *websocket.Conn
	Send chan []byte

	Hub  *Hub
	Room *Room
	Done chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

func NewClient(scope classpath.Scope, code, name string, avatar domain.EquippedSet, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Scope:       scope,
		StudentCode: code,
		StudentName: name,
		Avatar:      avatar,
		Conn:        conn,
		Send:        make(chan []byte, 64),
		Hub:         hub,
		Done:        make(chan struct{}),
		stop:        make(chan struct{}),
	}
}

// Shutdown asks the write pump to close the connection. Send stays open,
// so room code can keep queueing to a shut-down client without harm.
func (c *Client) Shutdown() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Run starts the pumps and joins the client to its class square. It blocks
// until the connection drops.
func (c *Client) Run() {
	go c.writePump()

	c.Room = c.Hub.Join(c)
	if c.Room == nil {
		c.Conn.Close()
		return
	}

	go c.readPump()
	<-c.Done
}

func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("square read error", "student", c.StudentCode, "error", err)
			}
			return
		}
		c.Room.HandleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-c.stop:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) disconnect() {
	if c.Room != nil {
		c.Hub.OnDisconnect(c)
	}
	_ = c.Conn.Close()
}
