package model

import "github.com/samber/lo"

type Result string

const (
	ResultWin   Result = "win"
	ResultDraw  Result = "draw"
	ResultError Result = "error"
)

// PlayerChoice pairs a player with the choice they submitted
type PlayerChoice struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Choice   Choice `json:"choice"`
}

// Outcome is the transient result of one resolved round
type Outcome struct {
	RoomCode   string         `json:"room_code"`
	Round      int            `json:"round"`
	Result     Result         `json:"result"`
	WinnerID   string         `json:"winner_id,omitempty"`
	WinnerName string         `json:"winner_name,omitempty"`
	Choices    []PlayerChoice `json:"choices,omitempty"`
}

// Winner returns the winning side of a decisive outcome
func (o Outcome) Winner() (PlayerChoice, bool) {
	if o.Result != ResultWin {
		return PlayerChoice{}, false
	}
	return lo.Find(o.Choices, func(c PlayerChoice) bool { return c.PlayerID == o.WinnerID })
}

// Loser returns the losing side of a decisive outcome
func (o Outcome) Loser() (PlayerChoice, bool) {
	if o.Result != ResultWin {
		return PlayerChoice{}, false
	}
	return lo.Find(o.Choices, func(c PlayerChoice) bool { return c.PlayerID != o.WinnerID })
}
