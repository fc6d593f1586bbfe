package model

const (
	DefaultPlayerName = "Player"
	DefaultAvatar     = "😀"
)

// Stats are cumulative per-connection counters; they only ever grow
type Stats struct {
	Played int `json:"played"`
	Won    int `json:"won"`
	Lost   int `json:"lost"`
	Drawn  int `json:"draw"`
}

// Player represents a participant in a room
type Player struct {
	ID        string // connection identity, owned by the transport
	Name      string
	Avatar    string
	WinStreak int
	Stats     Stats
	Choice    Choice // empty until submitted this round
}

// NewPlayer builds a player, falling back to defaults for blank fields
func NewPlayer(id, name, avatar string) *Player {
	if name == "" {
		name = DefaultPlayerName
	}
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &Player{ID: id, Name: name, Avatar: avatar}
}

// PlayerView is the public, broadcastable view of a player
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	WinStreak int    `json:"win_streak"`
	Stats     Stats  `json:"stats"`
	HasChosen bool   `json:"has_chosen"`
}

func (p *Player) View() PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		WinStreak: p.WinStreak,
		Stats:     p.Stats,
		HasChosen: p.Choice != "",
	}
}

func (p *Player) recordWin() {
	p.Stats.Played++
	p.Stats.Won++
	p.WinStreak++
}

func (p *Player) recordLoss() {
	p.Stats.Played++
	p.Stats.Lost++
	p.WinStreak = 0
}

func (p *Player) recordDraw() {
	p.Stats.Played++
	p.Stats.Drawn++
	p.WinStreak = 0
}
