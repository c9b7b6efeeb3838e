package models

import "time"

const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

type Report struct {
	ID             string
	ReporterID     string
	ReportType     string
	ReportedItemID string
	Status         string
	Resolution     *string
	ReviewedBy     *string
	ReviewedAt     *time.Time
	CreatedAt      time.Time
}
