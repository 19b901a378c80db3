package reasoning

import (
	"context"

	"github.com/botornot-chat/botornot/internal/model"
)

// RosterEntry is a player snapshot included in a generation request
type RosterEntry struct {
	Name   string
	Rating float64
}

// GenerateRequest carries everything needed to produce a bot's next chat
// line. It is plain data: rendering into provider messages happens at the
// service boundary, not in the orchestrator.
type GenerateRequest struct {
	BotName          string
	Persona          string
	Roster           []RosterEntry
	SelfRating       float64
	RemainingSeconds int
	History          []model.ChatMessage
	MaxTokens        int
}

// RateRequest asks the service to score each candidate's human-likeness on
// a 1-5 integer scale given recent chat history.
type RateRequest struct {
	BotName    string
	Candidates []string
	History    []model.ChatMessage
}

// Service is the external natural-language reasoning collaborator. It is
// unreliable, rate-limited, and possibly slow; callers absorb failures.
type Service interface {
	// Generate returns the bot's next chat line, possibly empty
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// Rate returns a mapping from player name to a 1-5 rating. A failure
	// to parse the provider's output is an error; callers treat it as
	// "no ratings produced".
	Rate(ctx context.Context, req RateRequest) (map[string]int, error)
}
