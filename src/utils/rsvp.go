package utils

import (
	"context"
	"strings"
	"time"
	"wedding/src/lib"
	"wedding/src/models"
	"wedding/src/repository"
	"wedding/src/types"
)

// SubmitRSVP records a confirmed attendance. Email and phone must both be
// unused by earlier entries.
func SubmitRSVP(ctx context.Context, params *types.CreateRSVPRequestBody) (*models.RSVP, error) {
	email := NormalizeEmail(params.Email)
	if !IsValidEmail(email) {
		return nil, types.ErrInvalidEmail
	}
	entry := &models.RSVP{
		Name:      strings.TrimSpace(params.Name),
		Email:     email,
		Phone:     NormalizePhone(params.Phone),
		Message:   optional(params.Message),
		Confirmed: true,
	}
	err := repository.GetStore().CreateRSVP(ctx, entry, func(total int64) []*models.Notification {
		return BuildNotifications(RSVPMessage(entry, total))
	})
	if err != nil {
		return nil, err
	}
	lib.Count(ctx, lib.METRIC_RSVP_SUBMITTED, 1)
	return entry, nil
}

func ListPublicRSVPs(ctx context.Context) ([]models.PublicRSVP, error) {
	entries, err := repository.GetStore().ListRSVPs(ctx, true)
	if err != nil {
		return nil, err
	}
	public := make([]models.PublicRSVP, 0, len(entries))
	for _, e := range entries {
		public = append(public, models.PublicRSVP{
			Name:      e.Name,
			Message:   e.Message,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return public, nil
}

func ListRSVPs(ctx context.Context) ([]models.RSVP, error) {
	return repository.GetStore().ListRSVPs(ctx, false)
}

func CountRSVPs(ctx context.Context) (int64, error) {
	return repository.GetStore().CountRSVPs(ctx)
}

// SendContactMessage queues the message for the couple on every configured
// channel.
func SendContactMessage(ctx context.Context, params *types.ContactRequestBody) error {
	params.Email = NormalizeEmail(params.Email)
	notifications := BuildNotifications(ContactMessage(params, time.Now()))
	if len(notifications) == 0 {
		return nil
	}
	for _, n := range notifications {
		n.SourceType = "contact"
	}
	return repository.GetStore().EnqueueNotifications(ctx, notifications...)
}
