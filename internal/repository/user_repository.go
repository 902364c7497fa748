package repository

import (
	"database/sql"
	"time"

	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

type UserRepositoryInterface interface {
	Create(u *model.User) error
	GetByEmail(email string) (*model.User, error)
	GetByID(id int) (*model.User, error)
	Update(u *model.User) error
}

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) Create(u *model.User) error {
	u.CreatedAt = time.Now()
	if u.Role == "" {
		u.Role = model.RoleAdmin
	}
	query := `
        INSERT INTO users (email, hashed_password, full_name, role, organization_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	return r.DB.QueryRow(query, u.Email, u.HashedPassword, u.FullName, u.Role, u.OrganizationID, u.CreatedAt).Scan(&u.ID)
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `
        SELECT id, email, hashed_password, full_name, role, organization_id, created_at
        FROM users WHERE email=$1
    `
	var u model.User
	err := r.DB.QueryRow(query, email).Scan(
		&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.Role, &u.OrganizationID, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(id int) (*model.User, error) {
	query := `
        SELECT id, email, hashed_password, full_name, role, organization_id, created_at
        FROM users WHERE id=$1
    `
	var u model.User
	err := r.DB.QueryRow(query, id).Scan(
		&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.Role, &u.OrganizationID, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *model.User) error {
	query := `
        UPDATE users SET email=$1, hashed_password=$2, full_name=$3 WHERE id=$4
    `
	_, err := r.DB.Exec(query, u.Email, u.HashedPassword, u.FullName, u.ID)
	return err
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
