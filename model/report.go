package model

import (
	"time"
)

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved               = "resolved"
	ReportDismissed              = "dismissed"
)

type Report struct {
	Id         string       `json:"id"`
	PostId     string       `json:"postId"`
	ReportedBy string       `json:"reportedBy"`
	Reason     string       `json:"reason"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"timestamp"`
}
