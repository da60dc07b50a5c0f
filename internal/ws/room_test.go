package ws

import (
	"encoding/json"
	"testing"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
)

func testClient() *Client {
	return &Client{
		Scope:       classpath.Scope("classes/ABC123"),
		StudentCode: "1203",
		StudentName: "Jisoo",
		Send:        make(chan []byte, 4),
	}
}

func readError(t *testing.T, c *Client) ErrorPayload {
	t.Helper()
	select {
	case data := <-c.Send:
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		if env.Type != MsgError {
			t.Fatalf("got message type %q, want %q", env.Type, MsgError)
		}
		var p ErrorPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		return p
	default:
		t.Fatal("no message queued")
	}
	return ErrorPayload{}
}

func TestHandleInbound_UnknownType(t *testing.T) {
	room := NewRoom(classpath.Scope("classes/ABC123"), nil)
	c := testClient()

	room.handleInbound(c, []byte(`{"type":"teleport"}`))

	p := readError(t, c)
	if p.Message != "unknown message type" {
		t.Fatalf("got %q", p.Message)
	}
}

func TestHandleInbound_Malformed(t *testing.T) {
	room := NewRoom(classpath.Scope("classes/ABC123"), nil)
	c := testClient()

	room.handleInbound(c, []byte(`not json`))

	p := readError(t, c)
	if p.Message != "malformed message" {
		t.Fatalf("got %q", p.Message)
	}
}

func TestHandleChat_BlankIgnored(t *testing.T) {
	room := NewRoom(classpath.Scope("classes/ABC123"), nil)
	c := testClient()

	room.handleInbound(c, []byte(`{"type":"chat","payload":{"text":"   "}}`))

	select {
	case data := <-c.Send:
		t.Fatalf("unexpected message: %s", data)
	default:
	}
}

func TestShutdownKeepsSendOpen(t *testing.T) {
	room := NewRoom(classpath.Scope("classes/ABC123"), nil)
	c := NewClient(classpath.Scope("classes/ABC123"), "1203", "Jisoo", nil, nil, nil)

	c.Shutdown()
	c.Shutdown() // idempotent

	// Room code may still queue to a shut-down client; that must not panic.
	room.sendError(c, "still open")

	select {
	case <-c.Send:
	default:
		t.Fatal("send channel should accept messages after shutdown")
	}
}

func TestHandleInbound_DropsReplacedConnection(t *testing.T) {
	room := NewRoom(classpath.Scope("classes/ABC123"), nil)
	old := testClient()
	replacement := testClient()
	room.clients[replacement.StudentCode] = replacement

	// A message queued by the old connection before the reconnect took
	// over must be ignored, not answered.
	room.handleInbound(old, []byte(`{"type":"teleport"}`))

	select {
	case data := <-old.Send:
		t.Fatalf("stale client got a reply: %s", data)
	default:
	}

	room.handleInbound(replacement, []byte(`{"type":"teleport"}`))
	p := readError(t, replacement)
	if p.Message != "unknown message type" {
		t.Fatalf("got %q", p.Message)
	}
}

func TestHandleInbound_MalformedChatPayload(t *testing.T) {
	room := NewRoom(classpath.Scope("classes/ABC123"), nil)
	c := testClient()

	room.handleInbound(c, []byte(`{"type":"chat","payload":{"text":42}}`))

	p := readError(t, c)
	if p.Message != "malformed chat payload" {
		t.Fatalf("got %q", p.Message)
	}
}
