package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-backoffice/repository"
	"hotel-backoffice/services"
)

type GuestController struct {
	GuestSvc *services.GuestService
}

func NewGuestController(svc *services.GuestService) *GuestController {
	return &GuestController{GuestSvc: svc}
}

type guestPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type guestPatchPayload struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

func (gc *GuestController) GetGuests(c *gin.Context) {
	guests, err := gc.GuestSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guests)
}

// GetGuestByID includes the guest's reservation history.
func (gc *GuestController) GetGuestByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	g, err := gc.GuestSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (gc *GuestController) CreateGuest(c *gin.Context) {
	var p guestPayload
	if !bindJSON(c, &p) {
		return
	}
	g, err := gc.GuestSvc.Create(c.Request.Context(), services.GuestInput(p))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (gc *GuestController) UpdateGuest(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p guestPatchPayload
	if !bindJSON(c, &p) {
		return
	}
	g, err := gc.GuestSvc.Update(c.Request.Context(), id, repository.GuestPatch(p))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (gc *GuestController) DeleteGuest(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := gc.GuestSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Guest deleted"})
}
