package ws

import "github.com/WooDaeYoon/dahandinworld/internal/domain"

// client → server
type ChatPayload struct {
	Text string `json:"text"`
}

type AvatarPayload struct {
	Avatar domain.EquippedSet `json:"avatar"`
}

// server → client
type SnapshotPayload struct {
	Participants []*domain.Participant `json:"participants"`
	Messages     []*domain.ChatMessage `json:"messages"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
