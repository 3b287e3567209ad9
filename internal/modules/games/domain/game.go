package domain

// OwnedGame is one entry of a member's raw library snapshot.
type OwnedGame struct {
	AppID int    `json:"appId"`
	Name  string `json:"name"`
}

// Game is a resolved common game, annotated with its normalized genres. An
// empty genre set can mean either "no genre data" or a failed metadata
// lookup - voting treats both the same way.
type Game struct {
	AppID  int      `json:"appId"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}
