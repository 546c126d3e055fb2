package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-backoffice/middleware"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"
)

type AuthController struct {
	AuthSvc *services.AuthService
	// SecureCookie sets the Secure flag on the session cookie.
	SecureCookie bool
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}
	session, err := ac.AuthSvc.Login(c.Request.Context(), p.Username, p.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, session.Token, maxAge, "/", "", ac.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": session.Token, "expires_at": session.ExpiresAt, "user": session.Staff})
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ac.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ac *AuthController) Me(c *gin.Context) {
	staffID, _ := c.Get("staff_id")
	id, _ := staffID.(uint)
	staff, err := ac.AuthSvc.Me(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}
