package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// wireMessage mirrors the hub's outbound frame
type wireMessage struct {
	Type      string    `json:"type"`
	SpeakerID int64     `json:"speaker_id"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
	Online    int       `json:"online"`
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Connect to your room and chat interactively",
		Long: `chat connects to the room you joined over websocket. Incoming
messages print to the terminal; lines you type are sent to the room.
Disconnecting removes you from the room.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Session.PlayerID == 0 {
				return fmt.Errorf("no saved session; join a room first")
			}

			url := client.WebsocketURL(cfg.Session.RoomID, cfg.Session.PlayerID)
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() { _ = conn.Close() }()

			fmt.Printf("Connected to room %d as %s. Type a message and press enter; Ctrl-C to quit.\n",
				cfg.Session.RoomID, cfg.Session.Name)

			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					_, data, err := conn.ReadMessage()
					if err != nil {
						return
					}
					var msg wireMessage
					if err := json.Unmarshal(data, &msg); err != nil {
						continue
					}
					switch msg.Type {
					case "message":
						fmt.Printf("[%s] %s: %s\n", msg.SentAt.Format("15:04:05"), msg.Speaker, msg.Text)
					case "presence":
						if cfg.Verbose {
							fmt.Printf("(%d online)\n", msg.Online)
						}
					}
				}
			}()

			lines := make(chan string)
			go func() {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					lines <- scanner.Text()
				}
				close(lines)
			}()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt)

			for {
				select {
				case <-done:
					fmt.Println("Disconnected")
					return cfg.ClearSession()
				case line, ok := <-lines:
					if !ok {
						return conn.WriteMessage(websocket.CloseMessage,
							websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					}
					if line == "" {
						continue
					}
					if err := conn.WriteJSON(map[string]string{"text": line}); err != nil {
						return err
					}
				case <-interrupt:
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					select {
					case <-done:
					case <-time.After(time.Second):
					}
					return cfg.ClearSession()
				}
			}
		},
	}
}
