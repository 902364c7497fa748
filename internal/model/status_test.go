package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to BroadcastStatus
	}{
		{BroadcastDraft, BroadcastScheduled},
		{BroadcastDraft, BroadcastProcessing},
		{BroadcastScheduled, BroadcastProcessing},
		{BroadcastProcessing, BroadcastCompleted},
		{BroadcastProcessing, BroadcastFailed},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransition(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to BroadcastStatus
	}{
		{BroadcastScheduled, BroadcastDraft},
		{BroadcastDraft, BroadcastCompleted},
		{BroadcastProcessing, BroadcastDraft},
		{BroadcastCompleted, BroadcastProcessing},
		{BroadcastCompleted, BroadcastFailed},
		{BroadcastFailed, BroadcastProcessing},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransition(tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestBroadcastStatusPredicates(t *testing.T) {
	assert.True(t, BroadcastDraft.Dispatchable())
	assert.True(t, BroadcastScheduled.Dispatchable())
	assert.False(t, BroadcastProcessing.Dispatchable())

	assert.True(t, BroadcastCompleted.Terminal())
	assert.True(t, BroadcastFailed.Terminal())
	assert.False(t, BroadcastProcessing.Terminal())

	assert.True(t, BroadcastDraft.Valid())
	assert.False(t, BroadcastStatus("sending").Valid())
}

func TestLogStatusTerminal(t *testing.T) {
	assert.False(t, LogPending.Terminal())
	assert.True(t, LogSent.Terminal())
	assert.True(t, LogDelivered.Terminal())
	assert.True(t, LogFailed.Terminal())
}
