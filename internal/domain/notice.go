package domain

import "time"

// Notice kinds.
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeUndo    = "undo"
)

// Notice is a transient, per-session message. Notices with Undoable set can be
// reverted until ExpiresAt.
type Notice struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Undoable  bool      `json:"undoable"`
	ExpiresAt time.Time `json:"expires_at"`
}
