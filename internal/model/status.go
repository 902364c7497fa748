package model

// BroadcastStatus is the lifecycle state of a broadcast. Transitions are
// one-directional: draft -> scheduled -> processing -> completed|failed.
type BroadcastStatus string

const (
	BroadcastDraft      BroadcastStatus = "draft"
	BroadcastScheduled  BroadcastStatus = "scheduled"
	BroadcastProcessing BroadcastStatus = "processing"
	BroadcastCompleted  BroadcastStatus = "completed"
	BroadcastFailed     BroadcastStatus = "failed"
)

var broadcastTransitions = map[BroadcastStatus][]BroadcastStatus{
	BroadcastDraft:      {BroadcastScheduled, BroadcastProcessing},
	BroadcastScheduled:  {BroadcastProcessing},
	BroadcastProcessing: {BroadcastCompleted, BroadcastFailed},
}

// Valid reports whether s is one of the known broadcast states.
func (s BroadcastStatus) Valid() bool {
	switch s {
	case BroadcastDraft, BroadcastScheduled, BroadcastProcessing, BroadcastCompleted, BroadcastFailed:
		return true
	}
	return false
}

// Terminal reports whether s is an end state.
func (s BroadcastStatus) Terminal() bool {
	return s == BroadcastCompleted || s == BroadcastFailed
}

// Dispatchable reports whether a dispatch run may claim a broadcast in this state.
func (s BroadcastStatus) Dispatchable() bool {
	return s == BroadcastDraft || s == BroadcastScheduled
}

// CanTransition reports whether s -> next is an allowed transition.
func (s BroadcastStatus) CanTransition(next BroadcastStatus) bool {
	for _, n := range broadcastTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// LogStatus is the state of one delivery log entry.
type LogStatus string

const (
	LogPending   LogStatus = "pending"
	LogSent      LogStatus = "sent"
	LogDelivered LogStatus = "delivered"
	LogFailed    LogStatus = "failed"
)

// Terminal reports whether the entry records a finished send attempt.
func (s LogStatus) Terminal() bool {
	return s == LogSent || s == LogDelivered || s == LogFailed
}

// MemberStatus controls dispatch eligibility.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)
