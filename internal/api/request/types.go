// Package request holds the API request body types
package request

// JoinRequest is the body for POST /api/v1/rooms/join
type JoinRequest struct {
	Name string `json:"name"`
}

// LeaveRequest is the body for POST /api/v1/rooms/{id}/leave
type LeaveRequest struct {
	PlayerID int64 `json:"player_id"`
}

// VoteRequest is the body for POST /api/v1/rooms/{id}/votes
type VoteRequest struct {
	FromID int64 `json:"from_id"`
	ToID   int64 `json:"to_id"`
	Star   int   `json:"star"`
}
