package model

import "time"

type Organization struct {
	ID                    int       `db:"id" json:"id"`
	Name                  string    `db:"name" json:"name"`
	WhatsappNumber        *string   `db:"whatsapp_number" json:"whatsapp_number,omitempty"`
	WhatsappPhoneNumberID *string   `db:"whatsapp_phone_number_id" json:"-"`
	WhatsappAccessToken   *string   `db:"whatsapp_access_token" json:"-"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// HasChannelCredentials reports whether the organization can construct a
// WhatsApp sender. A dispatch run fails outright without them.
func (o *Organization) HasChannelCredentials() bool {
	return o.WhatsappPhoneNumberID != nil && *o.WhatsappPhoneNumberID != "" &&
		o.WhatsappAccessToken != nil && *o.WhatsappAccessToken != ""
}

type Subscription struct {
	ID             int        `db:"id" json:"id"`
	OrganizationID int        `db:"organization_id" json:"organization_id"`
	PlanType       string     `db:"plan_type" json:"plan_type"`
	StartDate      *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
}
