package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/queue"
	"github.com/karibuhq/wabroadcast-backend/internal/repository"
)

type BroadcastService struct {
	BroadcastRepo repository.BroadcastRepositoryInterface
	LogRepo       repository.BroadcastLogRepositoryInterface
	Queue         queue.Queue
	Logger        zerolog.Logger
}

type CreateBroadcastInput struct {
	Content       string     `json:"content"`
	MediaURL      *string    `json:"media_url"`
	MessageType   string     `json:"message_type"`
	TemplateName  *string    `json:"template_name"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

// BroadcastDetails is a broadcast plus its per-status ledger counts.
type BroadcastDetails struct {
	model.Broadcast
	Stats map[string]int `json:"stats"`
}

// Create persists the broadcast and enqueues its dispatch job. The caller
// gets the row back immediately; delivery progress is observed by polling
// status and logs. A publish failure surfaces as ErrDispatchNotQueued: the
// broadcast row survives in its pre-dispatch state, so the caller knows it
// was saved but will not go out on its own.
func (s *BroadcastService) Create(orgID int, in CreateBroadcastInput) (*model.Broadcast, error) {
	if in.Content == "" {
		return nil, fmt.Errorf("content is required")
	}
	switch in.MessageType {
	case "", model.MessageTypeText, model.MessageTypeImage, model.MessageTypeTemplate:
	default:
		return nil, fmt.Errorf("unsupported message type: %s", in.MessageType)
	}

	b := &model.Broadcast{
		Content:        in.Content,
		MediaURL:       in.MediaURL,
		MessageType:    in.MessageType,
		TemplateName:   in.TemplateName,
		ScheduledTime:  in.ScheduledTime,
		OrganizationID: orgID,
	}
	if err := s.BroadcastRepo.Create(b); err != nil {
		return nil, err
	}

	if err := s.Queue.PublishDispatch(b.ID); err != nil {
		s.Logger.Error().Err(err).Int("broadcast_id", b.ID).Msg("enqueue dispatch failed")
		return b, fmt.Errorf("broadcast %d: %w: %v", b.ID, appErrors.ErrDispatchNotQueued, err)
	}
	return b, nil
}

// List fetches broadcasts with pagination
func (s *BroadcastService) List(orgID, page, pageSize int) ([]model.Broadcast, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	broadcasts, total, err := s.BroadcastRepo.ListByOrg(orgID, offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return broadcasts, pagination, nil
}

func (s *BroadcastService) Details(orgID, id int) (*BroadcastDetails, error) {
	b, err := s.BroadcastRepo.GetForOrg(orgID, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.LogRepo.CountByStatus(id)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range stats {
		total += n
	}
	stats["total"] = total

	return &BroadcastDetails{Broadcast: *b, Stats: stats}, nil
}

func (s *BroadcastService) Logs(orgID, id int) ([]model.BroadcastLog, error) {
	if _, err := s.BroadcastRepo.GetForOrg(orgID, id); err != nil {
		return nil, err
	}
	return s.LogRepo.ListByBroadcast(id)
}
