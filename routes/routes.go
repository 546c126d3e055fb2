package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
)

// Handlers bundles what SetupRouter wires up.
type Handlers struct {
	Rooms        *controllers.RoomController
	Guests       *controllers.GuestController
	Reservations *controllers.ReservationController
	Auth         *controllers.AuthController
	Stats        *controllers.StatsController

	Session     middleware.SessionVerifier
	RateLimit   gin.HandlerFunc // optional
	CorsOrigins []string
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := h.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if h.RateLimit != nil {
		api.Use(h.RateLimit)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}

	secured := api.Group("")
	secured.Use(middleware.RequireSession(h.Session))
	{
		secured.GET("/auth/me", h.Auth.Me)

		roomTypes := secured.Group("/room-types")
		{
			roomTypes.GET("", h.Rooms.GetRoomTypes)
			roomTypes.POST("", h.Rooms.CreateRoomType)
			roomTypes.PATCH("/:id", h.Rooms.UpdateRoomType)
			roomTypes.DELETE("/:id", h.Rooms.DeleteRoomType)
		}

		rooms := secured.Group("/rooms")
		{
			rooms.GET("", h.Rooms.GetRooms)
			rooms.POST("", h.Rooms.CreateRoom)
			rooms.GET("/:id", h.Rooms.GetRoom)
			rooms.PATCH("/:id", h.Rooms.UpdateRoomStatus)
		}

		guests := secured.Group("/guests")
		{
			guests.GET("", h.Guests.GetGuests)
			guests.POST("", h.Guests.CreateGuest)
			guests.GET("/:id", h.Guests.GetGuestByID)
			guests.PATCH("/:id", h.Guests.UpdateGuest)
			guests.PUT("/:id", h.Guests.UpdateGuest)
			guests.DELETE("/:id", h.Guests.DeleteGuest)
		}

		reservations := secured.Group("/reservations")
		{
			reservations.GET("", h.Reservations.GetReservations)
			reservations.POST("", h.Reservations.CreateReservation)
			reservations.GET("/:id", h.Reservations.GetReservation)
			reservations.PATCH("/:id", h.Reservations.UpdateReservation)
			reservations.DELETE("/:id", h.Reservations.DeleteReservation)
			reservations.GET("/:id/history", h.Reservations.GetHistory)
			reservations.GET("/:id/folio", h.Reservations.GetFolio)
			reservations.GET("/:id/charges", h.Reservations.GetCharges)
			reservations.POST("/:id/charges", h.Reservations.AddCharge)
			reservations.GET("/:id/payments", h.Reservations.GetPayments)
			reservations.POST("/:id/payments", h.Reservations.AddPayment)
		}

		secured.GET("/dashboard/stats", h.Stats.GetDashboardStats)
	}

	return r
}
