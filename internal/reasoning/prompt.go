package reasoning

import (
	"fmt"
	"strings"
)

// chatMessage is one entry in an OpenAI-compatible messages array
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	roleSystem = "system"
	roleUser   = "user"
)

// generateSystemPrompt frames the bot's persona and the live game state.
// The bot is told it is a human: convincing the real humans otherwise is
// the whole game.
func generateSystemPrompt(req GenerateRequest) string {
	var b strings.Builder
	b.WriteString("You are a Human in the group chat. The aim of the game is to find out who is a bot in the group.\n")
	b.WriteString("You have a unique personality and style of communication.\n")
	b.WriteString("Your personality:\n")
	b.WriteString(req.Persona)
	b.WriteString("\n\n")
	b.WriteString("As per the game rules, the person with the highest rating/vote will be eliminated from the group at the end of the round timer.\n")
	b.WriteString("Current group members and their average ratings: ")

	entries := make([]string, len(req.Roster))
	for i, e := range req.Roster {
		entries[i] = fmt.Sprintf("%s ⭐%.2f", e.Name, e.Rating)
	}
	b.WriteString(strings.Join(entries, ", "))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Your current average rating is ⭐%.2f. ", req.SelfRating)
	b.WriteString("If this rating is the highest in the group you will be eliminated at the end of the round timer, so be careful about your replies.\n")
	fmt.Fprintf(&b, "Current remaining round time in seconds: %d", req.RemainingSeconds)
	return b.String()
}

// renderGenerateMessages turns a GenerateRequest into provider messages:
// the system framing, the chat history in time order, and an explicit
// prompt for this bot's next line.
func renderGenerateMessages(req GenerateRequest) []chatMessage {
	messages := make([]chatMessage, 0, len(req.History)+2)
	messages = append(messages, chatMessage{Role: roleSystem, Content: generateSystemPrompt(req)})
	for _, m := range req.History {
		messages = append(messages, chatMessage{
			Role:    roleUser,
			Content: fmt.Sprintf("%s: %s", m.Speaker, m.Text),
		})
	}
	messages = append(messages, chatMessage{
		Role:    roleUser,
		Content: fmt.Sprintf("%s, what is your reply?", req.BotName),
	})
	return messages
}

// ratePromptTemplate asks for a JSON object mapping usernames to integer
// ratings. The traits listed steer the model toward typical chat-human
// tells rather than grammar quality.
const ratePromptTemplate = `You are a human-behavior evaluator in a group chat. Your name in the group is %s.

Given recent chat messages, rate how human-like each other user appears on a scale of 1 (very bot-like) to 5 (very human-like).

Return ONLY a JSON object with the real usernames (%s), like:
{"username1": 5, "username2": 2}

Consider these characteristics of a human in a group chat:
1) Inconsistency in language: typos, spelling mistakes, grammar errors, informal shortcuts ("brb", "u", "gonna", emoji spam).
2) Non-logical inputs: memes, stickers, or inside jokes that don't follow logical flow.
3) Low involvement: someone who rarely or never messages is more likely to be a human.
4) Humans write short messages, sometimes single words; many long sentences suggest a bot.

Chat history:
%s`

// renderRateMessages turns a RateRequest into provider messages
func renderRateMessages(req RateRequest) []chatMessage {
	var history strings.Builder
	for _, m := range req.History {
		fmt.Fprintf(&history, "%s: %s\n", m.Speaker, m.Text)
	}
	prompt := fmt.Sprintf(ratePromptTemplate,
		req.BotName,
		strings.Join(req.Candidates, ", "),
		history.String(),
	)
	return []chatMessage{{Role: roleUser, Content: prompt}}
}
