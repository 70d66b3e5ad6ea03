package models

import "time"

// Confession is one anonymous entry as held in local memory.
// ID and CreatedAt are assigned by the remote table store at creation time.
type Confession struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	LikeCount int       `json:"like_count"`
	VoteState VoteState `json:"vote_state"`
}

type CreateConfessionRequest struct {
	Text string `json:"text"`
}
