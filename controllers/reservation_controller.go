package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
	"hotel-backoffice/services"
)

type ReservationController struct {
	ReservationSvc *services.ReservationService
	LedgerSvc      *services.LedgerService
}

func NewReservationController(rs *services.ReservationService, ls *services.LedgerService) *ReservationController {
	return &ReservationController{ReservationSvc: rs, LedgerSvc: ls}
}

// ---------------------------
// Payload / DTOs
// ---------------------------

type createReservationPayload struct {
	GuestID      uint   `json:"guest_id"`
	RoomID       uint   `json:"room_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

type updateReservationPayload struct {
	Status   *models.ReservationStatus `json:"res_status"`
	Discount *decimal.Decimal          `json:"discount"`
}

type chargePayload struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
}

type paymentPayload struct {
	Amount    *decimal.Decimal `json:"amount"`
	Method    string           `json:"method"`
	Reference string           `json:"reference"`
}

// GET /api/reservations?room_id=&status=&guest_id=
func (rc *ReservationController) GetReservations(c *gin.Context) {
	var f repository.ReservationFilter
	var ok bool
	if f.RoomID, ok = optionalUintQuery(c, "room_id"); !ok {
		return
	}
	if f.GuestID, ok = optionalUintQuery(c, "guest_id"); !ok {
		return
	}
	if s := c.Query("status"); s != "" {
		status := models.ReservationStatus(s)
		f.Status = &status
	}
	list, err := rc.ReservationSvc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/reservations
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var p createReservationPayload
	if !bindJSON(c, &p) {
		return
	}
	res, err := rc.ReservationSvc.Create(c.Request.Context(), services.CreateReservationInput{
		GuestID:  p.GuestID,
		RoomID:   p.RoomID,
		CheckIn:  p.CheckInDate,
		CheckOut: p.CheckOutDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":                    "Reservation created",
		"res_id":                     res.ID,
		"status":                     res.Status,
		"total_amount":               res.TotalAmount,
		"nights":                     res.Nights,
		"price_per_night_at_booking": res.PricePerNightAtBooking,
	})
}

// GET /api/reservations/:id
func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res, err := rc.ReservationSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PATCH /api/reservations/:id  {res_status?, discount?}
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p updateReservationPayload
	if !bindJSON(c, &p) {
		return
	}
	res, err := rc.ReservationSvc.Update(c.Request.Context(), id, services.UpdateReservationInput{
		Status:   p.Status,
		Discount: p.Discount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation updated", "reservation": res})
}

// DELETE /api/reservations/:id  (cancelled only)
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.ReservationSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted"})
}

// GET /api/reservations/:id/history
func (rc *ReservationController) GetHistory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	events, err := rc.ReservationSvc.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ----------------------------------------------------
// Ledger
// ----------------------------------------------------

func (rc *ReservationController) GetCharges(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	charges, err := rc.LedgerSvc.ListCharges(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, charges)
}

func (rc *ReservationController) AddCharge(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p chargePayload
	if !bindJSON(c, &p) {
		return
	}
	charge, err := rc.LedgerSvc.AddCharge(c.Request.Context(), id, services.ChargeInput{
		Description: p.Description,
		Amount:      p.Amount,
		Category:    p.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, charge)
}

func (rc *ReservationController) GetPayments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	payments, err := rc.LedgerSvc.ListPayments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (rc *ReservationController) AddPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p paymentPayload
	if !bindJSON(c, &p) {
		return
	}
	payment, err := rc.LedgerSvc.AddPayment(c.Request.Context(), id, services.PaymentInput{
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (rc *ReservationController) GetFolio(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	folio, err := rc.LedgerSvc.Folio(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folio)
}
