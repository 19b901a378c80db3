package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room commands",
	}

	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomMessagesCmd())
	cmd.AddCommand(newRoomVoteCmd())

	return cmd
}

func newRoomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RoomSummary

			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <name>",
		Short: "Join an open room under the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[0]}

			var result JoinResult
			if err := client.Post("/api/v1/rooms/join", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveSession(Session{
				PlayerID: result.PlayerID,
				Name:     result.Name,
				RoomID:   result.Room.ID,
			}); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the room you joined",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Session.PlayerID == 0 {
				return fmt.Errorf("no saved session; join a room first")
			}

			path := fmt.Sprintf("/api/v1/rooms/%d/leave", cfg.Session.RoomID)
			req := map[string]int64{"player_id": cfg.Session.PlayerID}
			if err := client.Post(path, req, nil); err != nil {
				return err
			}
			if err := cfg.ClearSession(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left the room")
			return nil
		},
	}
}

func newRoomMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <id>",
		Short: "Show a room's chat log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []ChatMessage

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s/messages", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <player-id> <star>",
		Short: "Rate another player 1-5 for how human they seem",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Session.PlayerID == 0 {
				return fmt.Errorf("no saved session; join a room first")
			}

			var toID int64
			if _, err := fmt.Sscanf(args[0], "%d", &toID); err != nil {
				return fmt.Errorf("invalid player id %q", args[0])
			}
			var star int
			if _, err := fmt.Sscanf(args[1], "%d", &star); err != nil {
				return fmt.Errorf("invalid star %q", args[1])
			}

			path := fmt.Sprintf("/api/v1/rooms/%d/votes", cfg.Session.RoomID)
			req := map[string]any{
				"from_id": cfg.Session.PlayerID,
				"to_id":   toID,
				"star":    star,
			}
			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Rated player %d with %d star(s)", toID, star))
			return nil
		},
	}
}
