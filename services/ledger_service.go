package services

import (
	"context"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"

	"github.com/shopspring/decimal"
)

// LedgerService appends charges and payments to a reservation. Entries are
// never edited; the folio is informational only.
type LedgerService struct {
	store repository.Store
	opts  Options
}

func NewLedgerService(store repository.Store, opts Options) *LedgerService {
	return &LedgerService{store: store, opts: opts.normalize()}
}

type ChargeInput struct {
	Description string
	Amount      *decimal.Decimal
	Category    string
}

type PaymentInput struct {
	Amount    *decimal.Decimal
	Method    string
	Reference string
}

func (s *LedgerService) AddCharge(ctx context.Context, reservationID uint, in ChargeInput) (*models.ServiceCharge, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" || in.Amount == nil {
		return nil, invalid("description and amount are required")
	}
	if in.Amount.IsNegative() {
		return nil, invalid("amount must not be negative")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultChargeCategory
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	charge := models.ServiceCharge{
		ReservationID: reservationID,
		Description:   desc,
		Amount:        *in.Amount,
		Category:      category,
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.GetReservation(ctx, reservationID); err != nil {
			return storeErr("add charge", "reservation", err)
		}
		return tx.CreateCharge(ctx, &charge)
	})
	if err != nil {
		return nil, storeErr("add charge", "reservation", err)
	}

	amount := charge.Amount
	s.opts.publish(ctx, Event{Topic: TopicChargeAdded, ReservationID: reservationID, Amount: &amount})
	return &charge, nil
}

func (s *LedgerService) AddPayment(ctx context.Context, reservationID uint, in PaymentInput) (*models.Payment, error) {
	method := models.PaymentMethod(strings.TrimSpace(in.Method))
	if in.Amount == nil || method == "" {
		return nil, invalid("amount and method are required")
	}
	if !in.Amount.IsPositive() {
		return nil, invalid("amount must be greater than zero")
	}
	if !method.Valid() {
		return nil, invalid("method must be one of Cash, Card, Transfer, Other")
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	payment := models.Payment{
		ReservationID: reservationID,
		Amount:        *in.Amount,
		Method:        method,
		Reference:     strings.TrimSpace(in.Reference),
		PaymentDate:   s.opts.Now().UTC(),
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.GetReservation(ctx, reservationID); err != nil {
			return storeErr("record payment", "reservation", err)
		}
		return tx.CreatePayment(ctx, &payment)
	})
	if err != nil {
		return nil, storeErr("record payment", "reservation", err)
	}

	amount := payment.Amount
	s.opts.publish(ctx, Event{Topic: TopicPaymentRecorded, ReservationID: reservationID, Amount: &amount})
	return &payment, nil
}

func (s *LedgerService) ListCharges(ctx context.Context, reservationID uint) ([]models.ServiceCharge, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	if _, err := s.store.GetReservation(ctx, reservationID); err != nil {
		return nil, storeErr("list charges", "reservation", err)
	}
	out, err := s.store.ListCharges(ctx, reservationID)
	if err != nil {
		return nil, storeErr("list charges", "reservation", err)
	}
	return out, nil
}

func (s *LedgerService) ListPayments(ctx context.Context, reservationID uint) ([]models.Payment, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	if _, err := s.store.GetReservation(ctx, reservationID); err != nil {
		return nil, storeErr("list payments", "reservation", err)
	}
	out, err := s.store.ListPayments(ctx, reservationID)
	if err != nil {
		return nil, storeErr("list payments", "reservation", err)
	}
	return out, nil
}

// Folio sums the ledger: total - discount + charges - payments.
func (s *LedgerService) Folio(ctx context.Context, reservationID uint) (*models.Folio, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	res, err := s.store.GetReservationDetail(ctx, reservationID)
	if err != nil {
		return nil, storeErr("load folio", "reservation", err)
	}
	charges, payments := decimal.Zero, decimal.Zero
	for _, c := range res.Charges {
		charges = charges.Add(c.Amount)
	}
	for _, p := range res.Payments {
		payments = payments.Add(p.Amount)
	}
	return &models.Folio{
		ReservationID: res.ID,
		TotalAmount:   res.TotalAmount,
		Discount:      res.Discount,
		Charges:       charges,
		Payments:      payments,
		Balance:       res.TotalAmount.Sub(res.Discount).Add(charges).Sub(payments),
	}, nil
}
