package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/WooDaeYoon/dahandinworld/internal/classpath"
	"github.com/WooDaeYoon/dahandinworld/internal/db"
	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"
	"github.com/WooDaeYoon/dahandinworld/internal/service"
	"github.com/WooDaeYoon/dahandinworld/internal/ws"
)

// Connects two student sessions to a running server's square endpoint and
// verifies a chat message comes back in a snapshot.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	service.InitJWT()

	scope := classpath.Resolve("SMOKE1")
	students := repository.NewStudentRepository(pool)
	ctx := context.Background()

	for code, name := range map[string]string{"9001": "SmokeA", "9002": "SmokeB"} {
		if err := students.Sync(ctx, scope, code, name); err != nil {
			log.Fatalf("sync student %s: %v", code, err)
		}
	}

	connA := dial(port, scope, "9001", "SmokeA")
	defer connA.Close()
	connB := dial(port, scope, "9002", "SmokeB")
	defer connB.Close()

	// both should see a snapshot once both are in
	awaitSnapshot(connA, "A join")
	awaitSnapshot(connB, "B join")

	chat, _ := json.Marshal(ws.ChatPayload{Text: "hello square"})
	env, _ := json.Marshal(ws.Envelope{Type: ws.MsgChat, Payload: chat})
	if err := connA.WriteMessage(websocket.TextMessage, env); err != nil {
		log.Fatalf("send chat: %v", err)
	}

	snap := awaitSnapshot(connB, "chat broadcast")
	for _, m := range snap.Messages {
		if m.Message == "hello square" {
			log.Println("smoke ok: chat message delivered to peer")
			return
		}
	}
	log.Fatal("chat message missing from snapshot")
}

func dial(port string, scope classpath.Scope, code, name string) *websocket.Conn {
	token, err := service.GenerateSessionToken(&domain.Session{
		Role:        domain.RoleStudent,
		Scope:       scope.String(),
		StudentCode: code,
		StudentName: name,
	})
	if err != nil {
		log.Fatalf("token for %s: %v", code, err)
	}

	url := fmt.Sprintf("ws://localhost:%s/ws/square?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", code, err)
	}
	return conn
}

func awaitSnapshot(conn *websocket.Conn, stage string) ws.SnapshotPayload {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("%s: read: %v", stage, err)
		}

		var env ws.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type != ws.MsgSnapshot {
			continue
		}
		var snap ws.SnapshotPayload
		if err := json.Unmarshal(env.Payload, &snap); err != nil {
			log.Fatalf("%s: bad snapshot: %v", stage, err)
		}
		return snap
	}
	log.Fatalf("%s: no snapshot before deadline", stage)
	return ws.SnapshotPayload{}
}
