package services

import (
	"context"
	"log"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
)

type GuestService struct {
	store repository.Store
	opts  Options
}

func NewGuestService(store repository.Store, opts Options) *GuestService {
	return &GuestService{store: store, opts: opts.normalize()}
}

type GuestInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

func (s *GuestService) Create(ctx context.Context, in GuestInput) (*models.Guest, error) {
	g := models.Guest{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
	}
	if g.FirstName == "" || g.LastName == "" {
		return nil, invalid("first_name and last_name are required")
	}
	if g.Email == "" {
		log.Println("⚠️ Guest does not have an email.")
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	if err := s.store.CreateGuest(ctx, &g); err != nil {
		return nil, storeErr("create guest", "guest", err)
	}
	return &g, nil
}

func (s *GuestService) List(ctx context.Context) ([]models.Guest, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	out, err := s.store.ListGuests(ctx)
	if err != nil {
		return nil, storeErr("list guests", "guest", err)
	}
	return out, nil
}

// Get returns the guest with their reservation history, newest first.
func (s *GuestService) Get(ctx context.Context, id uint) (*models.Guest, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	g, err := s.store.GetGuest(ctx, id)
	if err != nil {
		return nil, storeErr("load guest", "guest", err)
	}
	history, err := s.store.ListReservations(ctx, repository.ReservationFilter{GuestID: &id})
	if err != nil {
		return nil, storeErr("load guest", "guest", err)
	}
	g.Reservations = history
	return g, nil
}

func (s *GuestService) Update(ctx context.Context, id uint, patch repository.GuestPatch) (*models.Guest, error) {
	for _, name := range []*string{patch.FirstName, patch.LastName} {
		if name != nil && strings.TrimSpace(*name) == "" {
			return nil, invalid("first_name and last_name cannot be empty")
		}
	}
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	if err := s.store.UpdateGuest(ctx, id, patch); err != nil {
		return nil, storeErr("update guest", "guest", err)
	}
	g, err := s.store.GetGuest(ctx, id)
	if err != nil {
		return nil, storeErr("update guest", "guest", err)
	}
	return g, nil
}

// Delete refuses while the guest still has reservations of any status.
func (s *GuestService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	return storeErr("delete guest", "guest", s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.GetGuest(ctx, id); err != nil {
			return storeErr("delete guest", "guest", err)
		}
		n, err := tx.CountReservationsByGuest(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return conflict("cannot delete guest with %d existing reservation(s)", n)
		}
		return tx.DeleteGuest(ctx, id)
	}))
}
