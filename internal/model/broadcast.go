package model

import "time"

const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeTemplate = "template"
)

type Broadcast struct {
	ID             int             `db:"id" json:"id"`
	Content        string          `db:"content" json:"content"`
	MediaURL       *string         `db:"media_url" json:"media_url,omitempty"`
	MessageType    string          `db:"message_type" json:"message_type"`
	TemplateName   *string         `db:"template_name" json:"template_name,omitempty"`
	Status         BroadcastStatus `db:"status" json:"status"`
	ScheduledTime  *time.Time      `db:"scheduled_time" json:"scheduled_time,omitempty"`
	OrganizationID int             `db:"organization_id" json:"organization_id"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
