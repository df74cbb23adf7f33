package domain

// EventKind classifies a realtime change.
type EventKind string

const (
	EventInsert EventKind = "INSERT"
	EventUpdate EventKind = "UPDATE"
	EventDelete EventKind = "DELETE"
)

// ChangeEvent is one row-level change of a user's entries. For deletes
// Entry carries only ID, UserID and Version.
type ChangeEvent struct {
	Kind  EventKind `json:"kind"`
	Entry Entry     `json:"entry"`
}
