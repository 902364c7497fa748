// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrMemberLimitReached  = errors.New("member limit reached (1000)")
	ErrMissingChannelCreds = errors.New("organization has no WhatsApp credentials")
	ErrDispatchNotQueued   = errors.New("broadcast saved but dispatch could not be queued")
)

// ErrBroadcastNotFound is a sentinel error
type ErrBroadcastNotFound struct {
	BroadcastID int
}

func (e *ErrBroadcastNotFound) Error() string {
	return fmt.Sprintf("broadcast with ID %d not found", e.BroadcastID)
}

// Helper constructor
func NewBroadcastNotFound(id int) error {
	return &ErrBroadcastNotFound{BroadcastID: id}
}

type ErrMemberNotFound struct {
	MemberID int
}

func (e *ErrMemberNotFound) Error() string {
	return fmt.Sprintf("member with ID %d not found", e.MemberID)
}

func NewMemberNotFound(id int) error {
	return &ErrMemberNotFound{MemberID: id}
}

type ErrOrganizationNotFound struct {
	OrganizationID int
}

func (e *ErrOrganizationNotFound) Error() string {
	return fmt.Sprintf("organization with ID %d not found", e.OrganizationID)
}

func NewOrganizationNotFound(id int) error {
	return &ErrOrganizationNotFound{OrganizationID: id}
}

// ErrInvalidTransition reports a broadcast status update that the state
// machine does not allow.
type ErrInvalidTransition struct {
	From, To string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid broadcast status transition %s -> %s", e.From, e.To)
}
