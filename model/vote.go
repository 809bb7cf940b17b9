package model

import (
	"time"
)

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown               = "down"
)

func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// Vote has a composite identity: at most one row per (postId, voterId).
type Vote struct {
	PostId    string        `json:"postId"`
	VoterId   string        `json:"voterId"`
	Direction VoteDirection `json:"type"`
	CreatedAt time.Time     `json:"timestamp"`
}

// Bookmark has a composite identity: at most one row per (postId, userId).
type Bookmark struct {
	PostId    string    `json:"postId"`
	UserId    string    `json:"userId"`
	CreatedAt time.Time `json:"timestamp"`
}
