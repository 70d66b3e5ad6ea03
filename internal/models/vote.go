package models

// VoteKind names the kind of vote a client may cast. Only like is backed by
// the remote schema; the message table carries no dislike column.
type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
)

// VoteState tracks whether this session has voted on an entry. It is purely
// client-local: never persisted remotely and reset to none on every reload.
type VoteState string

const (
	VoteStateNone  VoteState = "none"
	VoteStateLiked VoteState = "liked"
)

type VoteRequest struct {
	Kind VoteKind `json:"kind"`
}
