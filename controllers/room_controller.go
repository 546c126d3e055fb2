package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"
)

type RoomController struct {
	RoomSvc  *services.RoomService
	Location *time.Location
}

type createRoomPayload struct {
	RoomNumber string `json:"room_number"`
	TypeID     uint   `json:"type_id"`
}

type roomStatusPayload struct {
	Status models.RoomStatus `json:"status"`
}

type roomTypePayload struct {
	TypeName    string           `json:"type_name"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	Capacity    uint             `json:"capacity"`
	Description string           `json:"description"`
}

type roomTypePatchPayload struct {
	BasePrice   *decimal.Decimal `json:"base_price"`
	Capacity    *uint            `json:"capacity"`
	Description *string          `json:"description"`
}

func NewRoomController(svc *services.RoomService, loc *time.Location) *RoomController {
	return &RoomController{RoomSvc: svc, Location: loc}
}

// ----------------------------------------------------
// GET /api/rooms?check_in=&check_out=
// ----------------------------------------------------
func (rc *RoomController) GetRooms(c *gin.Context) {
	checkIn, checkOut := c.Query("check_in"), c.Query("check_out")
	var stay *services.DateRange
	switch {
	case checkIn == "" && checkOut == "":
	case checkIn == "" || checkOut == "":
		utils.JSONError(c, http.StatusBadRequest, "check_in and check_out must be provided together")
		return
	default:
		r, err := services.ParseDateRange(checkIn, checkOut, rc.Location)
		if err != nil {
			respondError(c, err)
			return
		}
		stay = &r
	}

	rooms, err := rc.RoomSvc.ListRooms(c.Request.Context(), stay)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var p createRoomPayload
	if !bindJSON(c, &p) {
		return
	}
	room, err := rc.RoomSvc.CreateRoom(c.Request.Context(), services.RoomInput{RoomNumber: p.RoomNumber, TypeID: p.TypeID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GET /api/rooms/:id
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.RoomSvc.GetRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// PATCH /api/rooms/:id  {status}
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p roomStatusPayload
	if !bindJSON(c, &p) {
		return
	}
	room, err := rc.RoomSvc.UpdateStatus(c.Request.Context(), id, p.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room status updated", "room": room})
}

// ----------------------------------------------------
// Room types
// ----------------------------------------------------

func (rc *RoomController) GetRoomTypes(c *gin.Context) {
	types, err := rc.RoomSvc.ListRoomTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func (rc *RoomController) CreateRoomType(c *gin.Context) {
	var p roomTypePayload
	if !bindJSON(c, &p) {
		return
	}
	rt, err := rc.RoomSvc.CreateRoomType(c.Request.Context(), services.RoomTypeInput{
		TypeName:    p.TypeName,
		BasePrice:   p.BasePrice,
		Capacity:    p.Capacity,
		Description: p.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func (rc *RoomController) UpdateRoomType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var p roomTypePatchPayload
	if !bindJSON(c, &p) {
		return
	}
	rt, err := rc.RoomSvc.UpdateRoomType(c.Request.Context(), id, repository.RoomTypePatch{
		BasePrice:   p.BasePrice,
		Capacity:    p.Capacity,
		Description: p.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (rc *RoomController) DeleteRoomType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomSvc.DeleteRoomType(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room type deleted"})
}
