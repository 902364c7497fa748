package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/repository"
	"github.com/karibuhq/wabroadcast-backend/internal/whatsapp"
)

// Sender is the narrow channel capability the dispatcher needs: send one
// message to one recipient, get an outcome.
type Sender interface {
	Send(ctx context.Context, to string, msg whatsapp.Message) (*whatsapp.Result, error)
}

// SenderFactory builds a Sender from an organization's channel credentials.
type SenderFactory func(org *model.Organization) (Sender, error)

// Dispatcher turns one broadcast into per-member send attempts. One Dispatch
// call is one run; per-member failures are recorded in the ledger and never
// abort the run.
type Dispatcher struct {
	Broadcasts repository.BroadcastRepositoryInterface
	Members    repository.MemberRepositoryInterface
	Orgs       repository.OrganizationRepositoryInterface
	Logs       repository.BroadcastLogRepositoryInterface
	NewSender  SenderFactory

	// Concurrency caps the worker pool; SendRate is messages/second against
	// the channel; SendTimeout bounds a single send.
	Concurrency int
	SendRate    float64
	SendTimeout time.Duration

	Logger zerolog.Logger
}

// Dispatch executes one run for the broadcast. A missing broadcast is a no-op
// success; a broadcast already claimed or terminal is a silent no-op for this
// caller (resume path aside). Failures before any ledger entry exists mark the
// broadcast failed and are returned; a ledger claim failure mid-run is
// returned with the broadcast left in processing so a retry can resume;
// recipient-scoped failures are swallowed into the ledger.
func (d *Dispatcher) Dispatch(ctx context.Context, broadcastID int) error {
	log := d.Logger.With().Int("broadcast_id", broadcastID).Logger()

	b, err := d.Broadcasts.GetByID(broadcastID)
	if err != nil {
		var notFound *appErrors.ErrBroadcastNotFound
		if errors.As(err, &notFound) {
			log.Info().Msg("broadcast gone, nothing to dispatch")
			return nil
		}
		return fmt.Errorf("load broadcast: %w", err)
	}

	claimed, err := d.Broadcasts.ClaimProcessing(b.ID)
	if err != nil {
		return fmt.Errorf("claim broadcast: %w", err)
	}
	if !claimed {
		// Re-read: the claim tells us someone else moved the status, not
		// where it went.
		b, err = d.Broadcasts.GetByID(broadcastID)
		if err != nil {
			var notFound *appErrors.ErrBroadcastNotFound
			if errors.As(err, &notFound) {
				return nil
			}
			return fmt.Errorf("reload broadcast: %w", err)
		}
		if b.Status != model.BroadcastProcessing {
			log.Info().Str("status", string(b.Status)).Msg("broadcast already dispatched, skipping")
			return nil
		}
		// An earlier run left the broadcast mid-flight (crash, or a
		// concurrent duplicate trigger). Resume: the per-member ledger claim
		// below makes sure nobody is attempted twice.
		log.Info().Msg("resuming interrupted dispatch run")
	}

	org, err := d.Orgs.GetByID(b.OrganizationID)
	if err != nil {
		d.markFailed(log, b.ID)
		return fmt.Errorf("load organization %d: %w", b.OrganizationID, err)
	}
	if !org.HasChannelCredentials() {
		d.markFailed(log, b.ID)
		return fmt.Errorf("organization %d: %w", org.ID, appErrors.ErrMissingChannelCreds)
	}

	sender, err := d.NewSender(org)
	if err != nil {
		d.markFailed(log, b.ID)
		return fmt.Errorf("build sender: %w", err)
	}

	// Eligibility is evaluated now, not at creation time.
	members, err := d.Members.ListActiveByOrg(b.OrganizationID)
	if err != nil {
		d.markFailed(log, b.ID)
		return fmt.Errorf("resolve recipients: %w", err)
	}

	if len(members) == 0 {
		log.Info().Msg("no active members, completing with empty ledger")
		return d.complete(log, b.ID)
	}

	msg := whatsapp.Message{
		Type:         b.MessageType,
		Content:      b.Content,
		MediaURL:     b.MediaURL,
		TemplateName: b.TemplateName,
	}

	concurrency := d.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sendRate := d.SendRate
	if sendRate <= 0 {
		sendRate = 10
	}
	limiter := rate.NewLimiter(rate.Limit(sendRate), concurrency)
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	attempted := 0
	var claimErr error
	for _, m := range members {
		entryID, ok, err := d.Logs.ClaimPending(b.ID, m.ID)
		if err != nil {
			// Storage trouble is run-scoped: completing now would leave this
			// member out of the ledger forever. Leave the broadcast in
			// processing so a retry resumes and picks up whoever has no row.
			claimErr = fmt.Errorf("claim ledger entry for member %d: %w", m.ID, err)
			break
		}
		if !ok {
			// Entry exists from an earlier or concurrent run. At-most-once
			// per recipient wins over re-sending.
			continue
		}

		attempted++
		wg.Add(1)
		sem <- struct{}{}
		go func(member model.Member, entryID int) {
			defer wg.Done()
			defer func() { <-sem }()
			d.sendOne(ctx, log, sender, limiter, member, entryID, msg)
		}(m, entryID)
	}
	wg.Wait()

	if claimErr != nil {
		log.Error().Err(claimErr).Int("attempted", attempted).Msg("dispatch run left open after ledger claim failure")
		return claimErr
	}

	log.Info().Int("recipients", len(members)).Int("attempted", attempted).Msg("dispatch run finished")
	return d.complete(log, b.ID)
}

func (d *Dispatcher) sendOne(ctx context.Context, log zerolog.Logger, sender Sender, limiter *rate.Limiter, member model.Member, entryID int, msg whatsapp.Message) {
	if err := limiter.Wait(ctx); err != nil {
		d.recordFailure(log, entryID, member.ID, err)
		return
	}

	timeout := d.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := sender.Send(sendCtx, member.PhoneNumber, msg)
	if err != nil {
		d.recordFailure(log, entryID, member.ID, err)
		return
	}

	status := model.LogSent
	if res.Delivered {
		status = model.LogDelivered
	}
	var messageID *string
	if res.MessageID != "" {
		messageID = &res.MessageID
	}
	if err := d.Logs.MarkOutcome(entryID, status, nil, messageID); err != nil {
		log.Error().Err(err).Int("member_id", member.ID).Msg("record outcome failed")
	}
}

func (d *Dispatcher) recordFailure(log zerolog.Logger, entryID, memberID int, sendErr error) {
	reason := sendErr.Error()
	if errors.Is(sendErr, context.DeadlineExceeded) {
		reason = "send timed out"
	}
	log.Warn().Err(sendErr).Int("member_id", memberID).Msg("send failed")
	if err := d.Logs.MarkOutcome(entryID, model.LogFailed, &reason, nil); err != nil {
		log.Error().Err(err).Int("member_id", memberID).Msg("record failure failed")
	}
}

// complete moves the broadcast to completed, but only once every ledger entry
// is terminal. Entries still pending belong to another live run (or to a
// crashed one); completing over them would tell pollers the run is done while
// sends are still in flight, so the broadcast stays in processing and whoever
// records the last outcome finishes it.
func (d *Dispatcher) complete(log zerolog.Logger, broadcastID int) error {
	stats, err := d.Logs.CountByStatus(broadcastID)
	if err != nil {
		return fmt.Errorf("count ledger entries: %w", err)
	}
	if pending := stats[string(model.LogPending)]; pending > 0 {
		log.Info().Int("pending", pending).Msg("ledger entries still pending, leaving run open")
		return nil
	}

	err = d.Broadcasts.TransitionStatus(broadcastID, model.BroadcastProcessing, model.BroadcastCompleted)
	if err != nil {
		var invalid *appErrors.ErrInvalidTransition
		if errors.As(err, &invalid) {
			// A concurrent run won the completion race; same outcome.
			log.Debug().Msg("broadcast already terminal")
			return nil
		}
		return fmt.Errorf("complete broadcast: %w", err)
	}
	return nil
}

func (d *Dispatcher) markFailed(log zerolog.Logger, broadcastID int) {
	err := d.Broadcasts.TransitionStatus(broadcastID, model.BroadcastProcessing, model.BroadcastFailed)
	if err != nil {
		var invalid *appErrors.ErrInvalidTransition
		if errors.As(err, &invalid) {
			return
		}
		log.Error().Err(err).Msg("could not mark broadcast failed")
	}
}
