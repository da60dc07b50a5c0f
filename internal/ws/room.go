package ws

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/logger"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type inboundMessage struct {
	client *Client
	data   []byte
}

// Room is one class square. All state changes run through the Run loop,
// and every change pushes a full snapshot to everyone in the room.
type Room struct {
	Scope classpath.Scope

	Register   chan *Client
	Disconnect chan *Client

	inbound chan inboundMessage
	done    chan struct{}

	mu      sync.RWMutex
	clients map[string]*Client

	squares *repository.SquareRepository
	created time.Time
}

func NewRoom(scope classpath.Scope, squares *repository.SquareRepository) *Room {
	return &Room{
		Scope:      scope,
		Register:   make(chan *Client, 8),
		Disconnect: make(chan *Client, 8),
		inbound:    make(chan inboundMessage, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
		squares:    squares,
		created:    time.Now(),
	}
}

func (r *Room) Run() {
	for {
		select {
		case c := <-r.Register:
			r.handleRegister(c)
		case c := <-r.Disconnect:
			r.handleDisconnect(c)
		case m := <-r.inbound:
			r.handleInbound(m.client, m.data)
		case <-r.done:
			return
		}
	}
}

func (r *Room) Stop() {
	close(r.done)
}

func (r *Room) Empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients) == 0
}

// HandleMessage queues a raw client message for the Run loop.
func (r *Room) HandleMessage(c *Client, data []byte) {
	select {
	case r.inbound <- inboundMessage{client: c, data: data}:
	default:
		logger.Warn("square inbound queue full, dropping message", "scope", r.Scope, "student", c.StudentCode)
	}
}

func (r *Room) handleRegister(c *Client) {
	ctx, cancel := r.opContext()
	defer cancel()

	p := &domain.Participant{
		Scope:   r.Scope.String(),
		Student: c.StudentCode,
		Name:    c.StudentName,
		Avatar:  c.Avatar,
	}
	if err := r.squares.Enter(ctx, p); err != nil {
		logger.Error("square enter failed", "scope", r.Scope, "student", c.StudentCode, "error", err)
		r.sendError(c, "could not join the square")
		return
	}

	r.mu.Lock()
	// A reconnect replaces the previous connection for the same student.
	// The old client is only signalled, never closed: its Send channel
	// must stay open while stale inbound messages drain.
	if old, ok := r.clients[c.StudentCode]; ok && old != c {
		old.Shutdown()
	}
	r.clients[c.StudentCode] = c
	r.mu.Unlock()

	r.broadcastSnapshot(ctx)
}

func (r *Room) handleDisconnect(c *Client) {
	r.mu.Lock()
	current, ok := r.clients[c.StudentCode]
	if ok && current == c {
		delete(r.clients, c.StudentCode)
	} else {
		// a newer connection already took over; leave presence alone
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	ctx, cancel := r.opContext()
	defer cancel()

	if err := r.squares.Leave(ctx, r.Scope, c.StudentCode); err != nil {
		logger.Error("square leave failed", "scope", r.Scope, "student", c.StudentCode, "error", err)
	}
	r.broadcastSnapshot(ctx)
}

func (r *Room) handleInbound(c *Client, data []byte) {
	// Messages from a connection that was replaced by a reconnect may
	// still be queued; ignore them.
	r.mu.RLock()
	current, ok := r.clients[c.StudentCode]
	r.mu.RUnlock()
	if ok && current != c {
		return
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.sendError(c, "malformed message")
		return
	}

	switch env.Type {
	case MsgChat:
		r.handleChat(c, env.Payload)
	case MsgAvatar:
		r.handleAvatar(c, env.Payload)
	case MsgPing:
		// keepalive only, read deadline already refreshed
	default:
		r.sendError(c, "unknown message type")
	}
}

func (r *Room) handleChat(c *Client, payload json.RawMessage) {
	var p ChatPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		r.sendError(c, "malformed chat payload")
		return
	}

	// Messages are stored and broadcast verbatim; the connection read limit
	// is the only size bound. Blank messages are dropped.
	if strings.TrimSpace(p.Text) == "" {
		return
	}

	ctx, cancel := r.opContext()
	defer cancel()

	msg := &domain.ChatMessage{
		Scope:   r.Scope.String(),
		Student: c.StudentCode,
		Name:    c.StudentName,
		Message: p.Text,
	}
	if err := r.squares.AppendMessage(ctx, msg); err != nil {
		logger.Error("square chat append failed", "scope", r.Scope, "student", c.StudentCode, "error", err)
		r.sendError(c, "could not send message")
		return
	}

	r.broadcastSnapshot(ctx)
}

func (r *Room) handleAvatar(c *Client, payload json.RawMessage) {
	var p AvatarPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		r.sendError(c, "malformed avatar payload")
		return
	}

	c.Avatar = p.Avatar

	ctx, cancel := r.opContext()
	defer cancel()

	participant := &domain.Participant{
		Scope:   r.Scope.String(),
		Student: c.StudentCode,
		Name:    c.StudentName,
		Avatar:  p.Avatar,
	}
	if err := r.squares.Enter(ctx, participant); err != nil {
		logger.Error("square avatar update failed", "scope", r.Scope, "student", c.StudentCode, "error", err)
		return
	}

	r.broadcastSnapshot(ctx)
}

// broadcastSnapshot reloads the full square state and pushes it to every
// connected client. Clients always render from the latest snapshot, so a
// dropped frame is corrected by the next one.
func (r *Room) broadcastSnapshot(ctx context.Context) {
	participants, err := r.squares.Participants(ctx, r.Scope)
	if err != nil {
		logger.Error("square snapshot load failed", "scope", r.Scope, "error", err)
		return
	}
	messages, err := r.squares.RecentMessages(ctx, r.Scope, domain.ChatHistoryLimit)
	if err != nil {
		logger.Error("square chat load failed", "scope", r.Scope, "error", err)
		return
	}

	data, err := marshalEnvelope(MsgSnapshot, SnapshotPayload{
		Participants: participants,
		Messages:     messages,
	})
	if err != nil {
		logger.Error("square snapshot marshal failed", "scope", r.Scope, "error", err)
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		select {
		case c.Send <- data:
		default:
			// slow client, skip; the next snapshot catches it up
		}
	}
}

func (r *Room) sendError(c *Client, msg string) {
	data, err := marshalEnvelope(MsgError, ErrorPayload{Message: msg})
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (r *Room) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
