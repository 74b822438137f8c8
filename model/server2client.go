package model

type ServerMessage struct {
	Setup     []Setup
	Snapshots []Snapshot
	Dismiss   []Dismiss
}

type Setup struct {
	SessionId string
	Tier      string
	Size      int
	Round     int
}

// Dismiss tells the client the result banner of Round can be cleared.
type Dismiss struct {
	Round int
}

// ClientMessage is one command. A non-empty NewGame names the tier of a fresh
// board and the move fields are ignored.
type ClientMessage struct {
	Move    Direction
	Flag    bool
	NewGame string
}
