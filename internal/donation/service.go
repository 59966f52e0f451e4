package donation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"givehub/internal/account"
	"givehub/internal/auth"
)

var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("admin access required")
)

// Service owns the ledger operations: admins append, anyone reads.
type Service struct {
	donations Store
	users     account.Store
	logger    zerolog.Logger
}

func NewService(donations Store, users account.Store, logger zerolog.Logger) *Service {
	return &Service{donations: donations, users: users, logger: logger}
}

type AddInput struct {
	DonorName string
	Item      string
	Value     *float64
	Message   *string
}

// Add records one donation stamped with the caller's id and the server
// clock. The caller must carry a verified admin identity; nothing is written
// otherwise.
func (s *Service) Add(ctx context.Context, id *auth.Identity, in AddInput) (*Donation, error) {
	if !id.IsAdmin() {
		return nil, ErrUnauthorized
	}

	submitter, err := primitive.ObjectIDFromHex(id.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	in.DonorName = strings.TrimSpace(in.DonorName)
	in.Item = strings.TrimSpace(in.Item)
	if in.DonorName == "" {
		return nil, fmt.Errorf("%w: donorName is required", ErrValidation)
	}
	if in.Item == "" {
		return nil, fmt.Errorf("%w: item is required", ErrValidation)
	}
	if in.Message != nil {
		m := strings.TrimSpace(*in.Message)
		in.Message = &m
	}

	d := &Donation{
		DonorName:   in.DonorName,
		Item:        in.Item,
		Value:       in.Value,
		Message:     in.Message,
		Date:        time.Now().UTC(),
		SubmittedBy: submitter,
	}
	if err := s.donations.Insert(ctx, d); err != nil {
		s.logger.Error().Err(err).Str("donor_name", d.DonorName).Msg("insert donation failed")
		return nil, err
	}
	return d, nil
}

// List returns the ledger newest first, with each submitter resolved to the
// public user fields. A submitter that no longer resolves yields nil for
// that item only; the rest of the list is unaffected.
func (s *Service) List(ctx context.Context) ([]Resolved, error) {
	items, err := s.donations.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list donations failed")
		return nil, err
	}

	out := make([]Resolved, 0, len(items))
	for _, d := range items {
		r := Resolved{Donation: d}
		if !d.SubmittedBy.IsZero() {
			u, err := s.users.FindByID(ctx, d.SubmittedBy.Hex())
			switch {
			case err == nil:
				r.Submitter = &Submitter{FirstName: u.FirstName, Role: u.Role}
			case !errors.Is(err, account.ErrNotFound):
				s.logger.Error().Err(err).Str("donation_id", d.ID.Hex()).Msg("resolve submitter failed")
			}
		}
		out = append(out, r)
	}
	return out, nil
}
