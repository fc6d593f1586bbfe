package model

import "strings"

// Choice is one of the three hand shapes a player can submit in a round
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// Choices lists every valid choice
var Choices = []Choice{Rock, Paper, Scissors}

// beats maps each choice to the one it defeats
var beats = map[Choice]Choice{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

var emojis = map[Choice]string{
	Rock:     "✊",
	Paper:    "🖐️",
	Scissors: "✌️",
}

// ParseChoice normalizes raw client input into a Choice
func ParseChoice(raw string) (Choice, bool) {
	c := Choice(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.Valid()
}

// Valid reports whether c belongs to the fixed choice set
func (c Choice) Valid() bool {
	_, ok := beats[c]
	return ok
}

// Beats reports whether c defeats other
func (c Choice) Beats(other Choice) bool {
	return c.Valid() && beats[c] == other
}

func (c Choice) Emoji() string {
	return emojis[c]
}

// Verdict is the result of resolving two simultaneous choices
type Verdict int

const (
	VerdictDraw Verdict = iota
	VerdictFirst
	VerdictSecond
)

func (v Verdict) String() string {
	switch v {
	case VerdictFirst:
		return "first"
	case VerdictSecond:
		return "second"
	default:
		return "draw"
	}
}

// Resolve applies rock > scissors > paper > rock to a pair of validated choices
func Resolve(first, second Choice) Verdict {
	switch {
	case first == second:
		return VerdictDraw
	case first.Beats(second):
		return VerdictFirst
	default:
		return VerdictSecond
	}
}
