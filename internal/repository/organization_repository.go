package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

type OrganizationRepositoryInterface interface {
	Create(o *model.Organization) error
	GetByID(id int) (*model.Organization, error)
	CreateSubscription(s *model.Subscription) error
	GetSubscription(orgID int) (*model.Subscription, error)
}

type OrganizationRepository struct {
	DB *sql.DB
}

func (r *OrganizationRepository) Create(o *model.Organization) error {
	o.CreatedAt = time.Now()
	query := `
        INSERT INTO organizations (name, whatsapp_number, whatsapp_phone_number_id, whatsapp_access_token, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, o.Name, o.WhatsappNumber, o.WhatsappPhoneNumberID, o.WhatsappAccessToken, o.CreatedAt).Scan(&o.ID)
}

func (r *OrganizationRepository) GetByID(id int) (*model.Organization, error) {
	query := `
        SELECT id, name, whatsapp_number, whatsapp_phone_number_id, whatsapp_access_token, created_at
        FROM organizations WHERE id=$1
    `
	var o model.Organization
	err := r.DB.QueryRow(query, id).Scan(
		&o.ID, &o.Name, &o.WhatsappNumber, &o.WhatsappPhoneNumberID, &o.WhatsappAccessToken, &o.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewOrganizationNotFound(id)
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrganizationRepository) CreateSubscription(s *model.Subscription) error {
	query := `
        INSERT INTO subscriptions (organization_id, plan_type, start_date, end_date, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, s.OrganizationID, s.PlanType, s.StartDate, s.EndDate, s.IsActive).Scan(&s.ID)
}

func (r *OrganizationRepository) GetSubscription(orgID int) (*model.Subscription, error) {
	query := `
        SELECT id, organization_id, plan_type, start_date, end_date, is_active
        FROM subscriptions WHERE organization_id=$1
    `
	var s model.Subscription
	err := r.DB.QueryRow(query, orgID).Scan(&s.ID, &s.OrganizationID, &s.PlanType, &s.StartDate, &s.EndDate, &s.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)
