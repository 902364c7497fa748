package service_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/service"
)

// stubBroadcastRepo keeps broadcasts in memory.
type stubBroadcastRepo struct {
	nextID     int
	broadcasts map[int]*model.Broadcast
}

func newStubBroadcastRepo() *stubBroadcastRepo {
	return &stubBroadcastRepo{broadcasts: map[int]*model.Broadcast{}}
}

func (r *stubBroadcastRepo) Create(b *model.Broadcast) error {
	r.nextID++
	b.ID = r.nextID
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
	copied := *b
	r.broadcasts[b.ID] = &copied
	return nil
}

func (r *stubBroadcastRepo) GetByID(id int) (*model.Broadcast, error) {
	b, ok := r.broadcasts[id]
	if !ok {
		return nil, appErrors.NewBroadcastNotFound(id)
	}
	return b, nil
}

func (r *stubBroadcastRepo) GetForOrg(orgID, id int) (*model.Broadcast, error) {
	b, ok := r.broadcasts[id]
	if !ok || b.OrganizationID != orgID {
		return nil, appErrors.NewBroadcastNotFound(id)
	}
	return b, nil
}

func (r *stubBroadcastRepo) ListByOrg(orgID, offset, limit int) ([]model.Broadcast, int, error) {
	out := []model.Broadcast{}
	for _, b := range r.broadcasts {
		if b.OrganizationID == orgID {
			out = append(out, *b)
		}
	}
	return out, len(out), nil
}

func (r *stubBroadcastRepo) ClaimProcessing(id int) (bool, error) { return false, nil }
func (r *stubBroadcastRepo) TransitionStatus(id int, from, to model.BroadcastStatus) error {
	return nil
}

type stubLogRepo struct {
	stats map[string]int
	logs  []model.BroadcastLog
}

func (r *stubLogRepo) ClaimPending(broadcastID, memberID int) (int, bool, error) {
	return 0, false, nil
}
func (r *stubLogRepo) MarkOutcome(id int, status model.LogStatus, errorReason, messageID *string) error {
	return nil
}
func (r *stubLogRepo) ListByBroadcast(broadcastID int) ([]model.BroadcastLog, error) {
	return r.logs, nil
}
func (r *stubLogRepo) CountByStatus(broadcastID int) (map[string]int, error) {
	if r.stats == nil {
		return map[string]int{"pending": 0, "sent": 0, "delivered": 0, "failed": 0}, nil
	}
	return r.stats, nil
}
func (r *stubLogRepo) DeleteByMember(memberID int) error { return nil }

// recordingQueue captures published dispatch jobs.
type recordingQueue struct {
	published []int
	err       error
}

func (q *recordingQueue) PublishDispatch(broadcastID int) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, broadcastID)
	return nil
}

func (q *recordingQueue) Close() error { return nil }

func TestCreateBroadcastEnqueuesDispatch(t *testing.T) {
	repo := newStubBroadcastRepo()
	q := &recordingQueue{}
	svc := &service.BroadcastService{
		BroadcastRepo: repo,
		LogRepo:       &stubLogRepo{},
		Queue:         q,
		Logger:        zerolog.Nop(),
	}

	b, err := svc.Create(10, service.CreateBroadcastInput{Content: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, model.BroadcastDraft, b.Status)
	assert.Equal(t, model.MessageTypeText, b.MessageType)
	assert.Equal(t, []int{b.ID}, q.published)
}

func TestCreateScheduledBroadcastStoredAsScheduled(t *testing.T) {
	repo := newStubBroadcastRepo()
	q := &recordingQueue{}
	svc := &service.BroadcastService{
		BroadcastRepo: repo,
		LogRepo:       &stubLogRepo{},
		Queue:         q,
		Logger:        zerolog.Nop(),
	}

	later := time.Now().Add(time.Hour)
	b, err := svc.Create(10, service.CreateBroadcastInput{Content: "Hello", ScheduledTime: &later})
	require.NoError(t, err)
	assert.Equal(t, model.BroadcastScheduled, b.Status)
}

func TestCreateBroadcastValidatesInput(t *testing.T) {
	svc := &service.BroadcastService{
		BroadcastRepo: newStubBroadcastRepo(),
		LogRepo:       &stubLogRepo{},
		Queue:         &recordingQueue{},
		Logger:        zerolog.Nop(),
	}

	_, err := svc.Create(10, service.CreateBroadcastInput{})
	assert.Error(t, err, "empty content must be rejected")

	_, err = svc.Create(10, service.CreateBroadcastInput{Content: "x", MessageType: "video"})
	assert.Error(t, err, "unsupported message type must be rejected")
}

func TestCreateBroadcastSurfacesQueueFailure(t *testing.T) {
	repo := newStubBroadcastRepo()
	q := &recordingQueue{err: assert.AnError}
	svc := &service.BroadcastService{
		BroadcastRepo: repo,
		LogRepo:       &stubLogRepo{},
		Queue:         q,
		Logger:        zerolog.Nop(),
	}

	// Nothing re-enqueues a stranded draft on its own, so the caller has to
	// hear about a publish failure. The row itself survives in draft.
	b, err := svc.Create(10, service.CreateBroadcastInput{Content: "Hello"})
	assert.ErrorIs(t, err, appErrors.ErrDispatchNotQueued)
	require.NotNil(t, b)
	assert.Equal(t, model.BroadcastDraft, b.Status)

	stored, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BroadcastDraft, stored.Status)
}

func TestDetailsIncludesLedgerStats(t *testing.T) {
	repo := newStubBroadcastRepo()
	require.NoError(t, repo.Create(&model.Broadcast{Content: "Hello", OrganizationID: 10}))

	svc := &service.BroadcastService{
		BroadcastRepo: repo,
		LogRepo:       &stubLogRepo{stats: map[string]int{"sent": 3, "failed": 1, "pending": 0, "delivered": 0}},
		Queue:         &recordingQueue{},
		Logger:        zerolog.Nop(),
	}

	details, err := svc.Details(10, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, details.Stats["sent"])
	assert.Equal(t, 1, details.Stats["failed"])
	assert.Equal(t, 4, details.Stats["total"])
}

func TestDetailsScopedToOrganization(t *testing.T) {
	repo := newStubBroadcastRepo()
	require.NoError(t, repo.Create(&model.Broadcast{Content: "Hello", OrganizationID: 10}))

	svc := &service.BroadcastService{
		BroadcastRepo: repo,
		LogRepo:       &stubLogRepo{},
		Queue:         &recordingQueue{},
		Logger:        zerolog.Nop(),
	}

	_, err := svc.Details(99, 1)
	var notFound *appErrors.ErrBroadcastNotFound
	assert.ErrorAs(t, err, &notFound, "cross-tenant read must look like not found")
}
