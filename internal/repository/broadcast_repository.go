package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

type BroadcastRepositoryInterface interface {
	Create(b *model.Broadcast) error

	// GetByID loads a broadcast regardless of organization; the worker only
	// has the id from the queue job.
	GetByID(id int) (*model.Broadcast, error)
	GetForOrg(orgID, id int) (*model.Broadcast, error)
	ListByOrg(orgID, offset, limit int) ([]model.Broadcast, int, error)

	// ClaimProcessing is the dispatch claim: a compare-and-set from
	// draft/scheduled to processing. Returns false when another run already
	// claimed the broadcast or it is terminal.
	ClaimProcessing(id int) (bool, error)

	// TransitionStatus applies from -> to only when the transition is legal
	// and the row still holds from.
	TransitionStatus(id int, from, to model.BroadcastStatus) error
}

type BroadcastRepository struct {
	DB *sql.DB
}

func (r *BroadcastRepository) Create(b *model.Broadcast) error {
	b.CreatedAt = time.Now()
	if b.Status == "" {
		if b.ScheduledTime != nil {
			b.Status = model.BroadcastScheduled
		} else {
			b.Status = model.BroadcastDraft
		}
	}
	if b.MessageType == "" {
		b.MessageType = model.MessageTypeText
	}
	query := `
        INSERT INTO broadcasts (content, media_url, message_type, template_name, status, scheduled_time, organization_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(
		query,
		b.Content, b.MediaURL, b.MessageType, b.TemplateName,
		b.Status, b.ScheduledTime, b.OrganizationID, b.CreatedAt,
	).Scan(&b.ID)
}

func (r *BroadcastRepository) GetByID(id int) (*model.Broadcast, error) {
	query := `
        SELECT id, content, media_url, message_type, template_name, status, scheduled_time, organization_id, created_at
        FROM broadcasts WHERE id=$1
    `
	var b model.Broadcast
	err := r.DB.QueryRow(query, id).Scan(
		&b.ID, &b.Content, &b.MediaURL, &b.MessageType, &b.TemplateName,
		&b.Status, &b.ScheduledTime, &b.OrganizationID, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewBroadcastNotFound(id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *BroadcastRepository) GetForOrg(orgID, id int) (*model.Broadcast, error) {
	query := `
        SELECT id, content, media_url, message_type, template_name, status, scheduled_time, organization_id, created_at
        FROM broadcasts WHERE id=$1 AND organization_id=$2
    `
	var b model.Broadcast
	err := r.DB.QueryRow(query, id, orgID).Scan(
		&b.ID, &b.Content, &b.MediaURL, &b.MessageType, &b.TemplateName,
		&b.Status, &b.ScheduledTime, &b.OrganizationID, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewBroadcastNotFound(id)
		}
		return nil, err
	}
	return &b, nil
}

func (r *BroadcastRepository) ListByOrg(orgID, offset, limit int) ([]model.Broadcast, int, error) {
	query := `
        SELECT id, content, media_url, message_type, template_name, status, scheduled_time, organization_id, created_at
        FROM broadcasts
        WHERE organization_id=$1
        ORDER BY id DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.DB.Query(query, orgID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	broadcasts := []model.Broadcast{}
	for rows.Next() {
		var b model.Broadcast
		if err := rows.Scan(
			&b.ID, &b.Content, &b.MediaURL, &b.MessageType, &b.TemplateName,
			&b.Status, &b.ScheduledTime, &b.OrganizationID, &b.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		broadcasts = append(broadcasts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM broadcasts WHERE organization_id=$1`, orgID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return broadcasts, total, nil
}

func (r *BroadcastRepository) ClaimProcessing(id int) (bool, error) {
	query := `
        UPDATE broadcasts SET status=$1
        WHERE id=$2 AND status IN ($3, $4)
    `
	res, err := r.DB.Exec(query, model.BroadcastProcessing, id, model.BroadcastDraft, model.BroadcastScheduled)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BroadcastRepository) TransitionStatus(id int, from, to model.BroadcastStatus) error {
	if !from.CanTransition(to) {
		return &appErrors.ErrInvalidTransition{From: string(from), To: string(to)}
	}
	res, err := r.DB.Exec(`UPDATE broadcasts SET status=$1 WHERE id=$2 AND status=$3`, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Someone else moved the row first; the state machine is monotonic
		// so this is a lost race, not corruption.
		return &appErrors.ErrInvalidTransition{From: string(from), To: string(to)}
	}
	return nil
}

var _ BroadcastRepositoryInterface = (*BroadcastRepository)(nil)
