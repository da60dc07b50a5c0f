package ws

const (
	// client - server
	MsgChat   = "chat"
	MsgAvatar = "avatar"
	MsgPing   = "ping"

	// server - client
	MsgSnapshot = "snapshot"
	MsgError    = "error"
)
