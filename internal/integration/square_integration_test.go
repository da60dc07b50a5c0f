package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/WooDaeYoon/dahandinworld/internal/domain"
	"github.com/WooDaeYoon/dahandinworld/internal/repository"
)

func TestRecentMessagesCappedAndOldestFirst(t *testing.T) {
	dbp := testPool(t)
	ctx := context.Background()
	scope := freshScope(t)

	squares := repository.NewSquareRepository(dbp)

	var insertedIDs []int64
	for i := 0; i < domain.ChatHistoryLimit+10; i++ {
		msg := &domain.ChatMessage{
			Scope:   scope.String(),
			Student: "1203",
			Name:    "Jisoo",
			Message: fmt.Sprintf("message %d", i),
		}
		if err := squares.AppendMessage(ctx, msg); err != nil {
			t.Fatalf("append message %d: %v", i, err)
		}
		insertedIDs = append(insertedIDs, msg.ID)
	}

	messages, err := squares.RecentMessages(ctx, scope, domain.ChatHistoryLimit)
	if err != nil {
		t.Fatalf("recent messages: %v", err)
	}

	if len(messages) != domain.ChatHistoryLimit {
		t.Fatalf("got %d messages, want %d", len(messages), domain.ChatHistoryLimit)
	}

	// The cap drops the oldest entries, so the feed starts at message 10.
	if got, want := messages[0].ID, insertedIDs[10]; got != want {
		t.Fatalf("first message id = %d, want %d", got, want)
	}
	if got, want := messages[len(messages)-1].ID, insertedIDs[len(insertedIDs)-1]; got != want {
		t.Fatalf("last message id = %d, want %d", got, want)
	}

	for i := 1; i < len(messages); i++ {
		if messages[i].ID <= messages[i-1].ID {
			t.Fatalf("messages out of order at %d: id %d after %d", i, messages[i].ID, messages[i-1].ID)
		}
		if messages[i].CreatedAt.Before(messages[i-1].CreatedAt) {
			t.Fatalf("timestamps out of order at %d", i)
		}
	}

	// An oversized limit still clamps to the cap.
	clamped, err := squares.RecentMessages(ctx, scope, 500)
	if err != nil {
		t.Fatalf("recent messages with oversized limit: %v", err)
	}
	if len(clamped) != domain.ChatHistoryLimit {
		t.Fatalf("oversized limit returned %d messages, want %d", len(clamped), domain.ChatHistoryLimit)
	}
}
