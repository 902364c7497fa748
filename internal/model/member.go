package model

import "time"

type Member struct {
	ID             int          `db:"id" json:"id"`
	Name           string       `db:"name" json:"name"`
	PhoneNumber    string       `db:"phone_number" json:"phone_number"`
	Status         MemberStatus `db:"status" json:"status"`
	OrganizationID int          `db:"organization_id" json:"organization_id"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
