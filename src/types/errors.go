package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyConfirmed  = errors.New("order already confirmed")
	ErrAlreadyCancelled  = errors.New("order already cancelled")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidInventory  = errors.New("reserved + sold must not exceed quantity")
	ErrTooManyAttempts   = errors.New("too many attempts")
	ErrInvalidUpload     = errors.New("invalid upload")
	ErrStorageNotEnabled = errors.New("storage is not configured")
)

type AvailabilityIssue struct {
	GiftID    uuid.UUID `json:"giftId"`
	Name      string    `json:"name"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

func (i AvailabilityIssue) String() string {
	return fmt.Sprintf("%s: solicitado %d, disponível %d", i.Name, i.Requested, i.Available)
}

type AvailabilityConflictError struct {
	Issues []AvailabilityIssue
}

func (e *AvailabilityConflictError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		msgs = append(msgs, i.String())
	}
	return "some items are no longer available: " + strings.Join(msgs, "; ")
}

// DuplicateEntryError names the field that collided with an existing RSVP.
type DuplicateEntryError struct {
	Field string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("%s already registered", e.Field)
}

func (e *DuplicateEntryError) Unwrap() error {
	return ErrDuplicateEntry
}
