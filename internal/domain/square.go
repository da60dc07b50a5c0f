package domain

import "time"

// Participant is an ephemeral presence record in a class square. It lives
// only while the student's session is connected and is deleted on leave.
type Participant struct {
	Scope      string      `db:"scope" json:"-"`
	Student    string      `db:"student_code" json:"student_code"`
	Name       string      `db:"name" json:"name"`
	Avatar     EquippedSet `db:"avatar" json:"avatar"`
	LastActive time.Time   `db:"last_active" json:"last_active"`
}

// ChatMessage is one square chat entry. Messages are stored and broadcast
// verbatim; clients only ever see the most recent ChatHistoryLimit of them.
type ChatMessage struct {
	ID        int64     `db:"id" json:"id"`
	Scope     string    `db:"scope" json:"-"`
	Student   string    `db:"student_code" json:"student_code"`
	Name      string    `db:"student_name" json:"student_name"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatHistoryLimit caps the chat snapshot delivered to clients.
const ChatHistoryLimit = 50
