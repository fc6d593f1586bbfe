package model

import (
	"time"

	"github.com/samber/lo"
)

// MatchPlayer is one side of a recorded round
type MatchPlayer struct {
	Name      string `json:"name" bson:"name"`
	Avatar    string `json:"avatar" bson:"avatar"`
	Choice    Choice `json:"choice" bson:"choice"`
	WinStreak int    `json:"winStreak" bson:"winStreak"`
	Won       bool   `json:"won" bson:"won"`
}

// Match is the durable record of a resolved round
type Match struct {
	ID         string        `json:"id" bson:"_id,omitempty"`
	RoomCode   string        `json:"roomCode" bson:"roomCode"`
	Round      int           `json:"round" bson:"round"`
	Result     Result        `json:"result" bson:"result"`
	WinnerName string        `json:"winnerName,omitempty" bson:"winnerName,omitempty"`
	Players    []MatchPlayer `json:"players" bson:"players"`
	PlayedAt   time.Time     `json:"playedAt" bson:"playedAt"`
}

// NewMatch captures an outcome together with the players' post-round state
func NewMatch(outcome Outcome, players []*Player, playedAt time.Time) *Match {
	return &Match{
		RoomCode:   outcome.RoomCode,
		Round:      outcome.Round,
		Result:     outcome.Result,
		WinnerName: outcome.WinnerName,
		PlayedAt:   playedAt,
		Players: lo.FilterMap(outcome.Choices, func(c PlayerChoice, _ int) (MatchPlayer, bool) {
			p, ok := lo.Find(players, func(p *Player) bool { return p.ID == c.PlayerID })
			if !ok {
				return MatchPlayer{}, false
			}
			return MatchPlayer{
				Name:      p.Name,
				Avatar:    p.Avatar,
				Choice:    c.Choice,
				WinStreak: p.WinStreak,
				Won:       outcome.WinnerID == p.ID,
			}, true
		}),
	}
}
