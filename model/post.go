package model

import (
	"time"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo           = "video"
	MediaFile            = "file"
)

// MediaRef describes a stored upload. It is owned by exactly one post and
// referenced by value; the backing file lives in the media store.
type MediaRef struct {
	FileUrl  string    `json:"fileUrl"`
	FileName string    `json:"fileName"`
	FileType MediaType `json:"fileType"`
	FileSize int64     `json:"fileSize"`
}

type Post struct {
	Id      string     `json:"id"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags"`
	Media   []MediaRef `json:"media"`
	// OwnerId is the creator's identity fingerprint. It has to survive the
	// snapshot round-trip, so the view layer is responsible for masking it;
	// clients only ever see the isOwner flag.
	OwnerId   string    `json:"ownerId"`
	ColorHint int       `json:"colorHint"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Post) CanDelete(requesterId string, isAdmin bool) bool {
	return isAdmin || p.OwnerId == requesterId
}

type Comment struct {
	Id        string    `json:"id"`
	PostId    string    `json:"postId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
