package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botornot-chat/botornot/internal/model"
)

func TestRenderGenerateMessages(t *testing.T) {
	req := GenerateRequest{
		BotName: "ollie99",
		Persona: "You are ollie99, a laid-back student.",
		Roster: []RosterEntry{
			{Name: "ollie99", Rating: 2.5},
			{Name: "maria", Rating: 4},
		},
		SelfRating:       2.5,
		RemainingSeconds: 95,
		History: []model.ChatMessage{
			{Speaker: "maria", Text: "anyone here actually human lol"},
			{Speaker: "ollie99", Text: "define human"},
		},
	}

	messages := renderGenerateMessages(req)
	require.Len(t, messages, 4)

	assert.Equal(t, roleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "You are ollie99, a laid-back student.")
	assert.Contains(t, messages[0].Content, "ollie99 ⭐2.50, maria ⭐4.00")
	assert.Contains(t, messages[0].Content, "Your current average rating is ⭐2.50.")
	assert.Contains(t, messages[0].Content, "Current remaining round time in seconds: 95")

	assert.Equal(t, roleUser, messages[1].Role)
	assert.Equal(t, "maria: anyone here actually human lol", messages[1].Content)
	assert.Equal(t, "ollie99: define human", messages[2].Content)
	assert.Equal(t, "ollie99, what is your reply?", messages[3].Content)
}

func TestRenderGenerateMessagesEmptyHistory(t *testing.T) {
	req := GenerateRequest{
		BotName: "sam",
		Persona: "You are sam.",
		Roster:  []RosterEntry{{Name: "sam", Rating: 0}},
	}

	messages := renderGenerateMessages(req)
	require.Len(t, messages, 2)
	assert.Equal(t, roleSystem, messages[0].Role)
	assert.Equal(t, "sam, what is your reply?", messages[1].Content)
}

func TestRenderRateMessages(t *testing.T) {
	req := RateRequest{
		BotName:    "ollie99",
		Candidates: []string{"maria", "jake"},
		History: []model.ChatMessage{
			{Speaker: "maria", Text: "brb"},
			{Speaker: "jake", Text: "I find this conversation most stimulating."},
		},
	}

	messages := renderRateMessages(req)
	require.Len(t, messages, 1)
	assert.Equal(t, roleUser, messages[0].Role)
	assert.Contains(t, messages[0].Content, "Your name in the group is ollie99.")
	assert.Contains(t, messages[0].Content, "real usernames (maria, jake)")
	assert.Contains(t, messages[0].Content, "maria: brb\njake: I find this conversation most stimulating.\n")
}
