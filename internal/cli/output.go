package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case []RoomSummary:
		o.printRoomList(v)
	case JoinResult:
		o.printJoinResult(v)
	case []ChatMessage:
		o.printMessages(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RoomPlayer response type (matches API)
type RoomPlayer struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
}

// Room response type
type Room struct {
	ID               int          `json:"id"`
	State            string       `json:"state"`
	Round            int          `json:"round"`
	RemainingSeconds int          `json:"remaining_seconds"`
	Heat             string       `json:"heat"`
	WinRate          string       `json:"win_rate"`
	Players          []RoomPlayer `json:"players"`
}

// RoomSummary response type
type RoomSummary struct {
	ID               int    `json:"id"`
	State            string `json:"state"`
	Round            int    `json:"round"`
	RemainingSeconds int    `json:"remaining_seconds"`
	SeatCount        int    `json:"seat_count"`
	FreeSeats        int    `json:"free_seats"`
}

// JoinResult response type
type JoinResult struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Room     Room   `json:"room"`
}

// ChatMessage response type
type ChatMessage struct {
	SpeakerID int64     `json:"speaker_id"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Humans int    `json:"humans"`
	Bots   int    `json:"bots"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %d\n", r.ID)
	fmt.Printf("State: %s\n", r.State)
	fmt.Printf("Round: %d\n", r.Round)
	if r.RemainingSeconds > 0 {
		fmt.Printf("Remaining: %ds\n", r.RemainingSeconds)
	}
	fmt.Printf("Heat: %s\n", r.Heat)
	fmt.Printf("Win Rate: %s\n", r.WinRate)
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		fmt.Printf("  - %s (%d) ⭐%.2f\n", p.Name, p.ID, p.AverageRating)
	}
}

func (o *Output) printRoomList(rooms []RoomSummary) {
	if len(rooms) == 0 {
		fmt.Println("No rooms")
		return
	}
	for _, r := range rooms {
		fmt.Printf("Room %d: %s, round %d, %d/%d seats", r.ID, r.State, r.Round, r.SeatCount, r.SeatCount+r.FreeSeats)
		if r.RemainingSeconds > 0 {
			fmt.Printf(", %ds left", r.RemainingSeconds)
		}
		fmt.Println()
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	fmt.Printf("Joined room %d as %s (%d)\n", j.Room.ID, j.Name, j.PlayerID)
	o.printRoom(j.Room)
}

func (o *Output) printMessages(msgs []ChatMessage) {
	for _, m := range msgs {
		fmt.Printf("[%s] %s: %s\n", m.SentAt.Format("15:04:05"), m.Speaker, m.Text)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Humans seated: %d\n", h.Humans)
	fmt.Printf("Bots seated: %d\n", h.Bots)
}
