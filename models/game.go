package models

// Game is the only resource the service exposes. The ID is chosen by the
// client; the store's primary key keeps it unique.
type Game struct {
	ID         int64      `json:"id"`
	Dimensions Dimensions `json:"dimensions"`
}

// Dimensions is the board size of a game.
type Dimensions struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}
