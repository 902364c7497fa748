package model

import "time"

// BroadcastLog is the per-(broadcast, member) delivery record. At most one row
// exists per pair, enforced by a unique index.
type BroadcastLog struct {
	ID          int       `db:"id" json:"id"`
	BroadcastID int       `db:"broadcast_id" json:"broadcast_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	Status      LogStatus `db:"status" json:"status"`
	ErrorReason *string   `db:"error_reason" json:"error_reason,omitempty"`
	MessageID   *string   `db:"message_id" json:"message_id,omitempty"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
