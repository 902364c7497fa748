package repository

import (
	"database/sql"

	"github.com/karibuhq/wabroadcast-backend/internal/model"
)

// BroadcastLogRepositoryInterface is the delivery ledger. One row per
// (broadcast, member) pair, created when a send attempt begins.
type BroadcastLogRepositoryInterface interface {
	// ClaimPending inserts the pending entry for the pair and returns its id.
	// claimed is false when an entry already exists; the caller must then
	// skip the member, whatever the existing entry's state.
	ClaimPending(broadcastID, memberID int) (id int, claimed bool, err error)

	// MarkOutcome records the terminal result of the attempt.
	MarkOutcome(id int, status model.LogStatus, errorReason, messageID *string) error

	ListByBroadcast(broadcastID int) ([]model.BroadcastLog, error)
	CountByStatus(broadcastID int) (map[string]int, error)
	DeleteByMember(memberID int) error
}

type BroadcastLogRepository struct {
	DB *sql.DB
}

func (r *BroadcastLogRepository) ClaimPending(broadcastID, memberID int) (int, bool, error) {
	query := `
        INSERT INTO broadcast_logs (broadcast_id, member_id, status, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (broadcast_id, member_id) DO NOTHING
        RETURNING id
    `
	var id int
	err := r.DB.QueryRow(query, broadcastID, memberID, model.LogPending).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

func (r *BroadcastLogRepository) MarkOutcome(id int, status model.LogStatus, errorReason, messageID *string) error {
	query := `
        UPDATE broadcast_logs
        SET status=$1, error_reason=$2, message_id=$3, updated_at=NOW()
        WHERE id=$4
    `
	_, err := r.DB.Exec(query, status, errorReason, messageID, id)
	return err
}

func (r *BroadcastLogRepository) ListByBroadcast(broadcastID int) ([]model.BroadcastLog, error) {
	query := `
        SELECT id, broadcast_id, member_id, status, error_reason, message_id, updated_at
        FROM broadcast_logs
        WHERE broadcast_id=$1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, broadcastID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.BroadcastLog{}
	for rows.Next() {
		var l model.BroadcastLog
		if err := rows.Scan(&l.ID, &l.BroadcastID, &l.MemberID, &l.Status, &l.ErrorReason, &l.MessageID, &l.UpdatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *BroadcastLogRepository) CountByStatus(broadcastID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM broadcast_logs WHERE broadcast_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, broadcastID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"pending": 0, "sent": 0, "delivered": 0, "failed": 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func (r *BroadcastLogRepository) DeleteByMember(memberID int) error {
	_, err := r.DB.Exec(`DELETE FROM broadcast_logs WHERE member_id=$1`, memberID)
	return err
}

var _ BroadcastLogRepositoryInterface = (*BroadcastLogRepository)(nil)
