package repository

import (
	"database/sql"
	"time"

	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

// MemberRepositoryInterface defines methods used by services and the dispatcher
type MemberRepositoryInterface interface {
	Create(m *model.Member) error
	GetByID(orgID, id int) (*model.Member, error)
	Update(m *model.Member) error
	Delete(orgID, id int) error
	ListByOrg(orgID, offset, limit int) ([]model.Member, error)
	CountByOrg(orgID int) (int, error)

	// ListActiveByOrg is the recipient resolver: active members of the
	// organization, ordered by id, evaluated at call time.
	ListActiveByOrg(orgID int) ([]model.Member, error)
}

type MemberRepository struct {
	DB *sql.DB
}

func (r *MemberRepository) Create(m *model.Member) error {
	m.CreatedAt = time.Now()
	if m.Status == "" {
		m.Status = model.MemberActive
	}
	query := `
        INSERT INTO members (name, phone_number, status, organization_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, m.Name, m.PhoneNumber, m.Status, m.OrganizationID, m.CreatedAt).Scan(&m.ID)
}

func (r *MemberRepository) GetByID(orgID, id int) (*model.Member, error) {
	query := `
        SELECT id, name, phone_number, status, organization_id, created_at
        FROM members
        WHERE id=$1 AND organization_id=$2
    `
	var m model.Member
	err := r.DB.QueryRow(query, id, orgID).Scan(&m.ID, &m.Name, &m.PhoneNumber, &m.Status, &m.OrganizationID, &m.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) Update(m *model.Member) error {
	query := `
        UPDATE members SET name=$1, phone_number=$2, status=$3
        WHERE id=$4 AND organization_id=$5
    `
	_, err := r.DB.Exec(query, m.Name, m.PhoneNumber, m.Status, m.ID, m.OrganizationID)
	return err
}

func (r *MemberRepository) Delete(orgID, id int) error {
	_, err := r.DB.Exec(`DELETE FROM members WHERE id=$1 AND organization_id=$2`, id, orgID)
	return err
}

func (r *MemberRepository) ListByOrg(orgID, offset, limit int) ([]model.Member, error) {
	query := `
        SELECT id, name, phone_number, status, organization_id, created_at
        FROM members
        WHERE organization_id=$1
        ORDER BY id
        LIMIT $2 OFFSET $3
    `
	rows, err := r.DB.Query(query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.PhoneNumber, &m.Status, &m.OrganizationID, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepository) CountByOrg(orgID int) (int, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM members WHERE organization_id=$1`, orgID).Scan(&count)
	return count, err
}

func (r *MemberRepository) ListActiveByOrg(orgID int) ([]model.Member, error) {
	query := `
        SELECT id, name, phone_number, status, organization_id, created_at
        FROM members
        WHERE organization_id=$1 AND status=$2
        ORDER BY id
    `
	rows, err := r.DB.Query(query, orgID, model.MemberActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.PhoneNumber, &m.Status, &m.OrganizationID, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

var _ MemberRepositoryInterface = (*MemberRepository)(nil)
