package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"
)

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		vErr *services.ValidationError
		nErr *services.NotFoundError
		cErr *services.ConflictError
		tErr *services.TransientError
	)
	switch {
	case errors.As(err, &vErr):
		utils.JSONError(c, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &nErr):
		utils.JSONError(c, http.StatusNotFound, nErr.Error())
	case errors.As(err, &cErr):
		utils.JSONError(c, http.StatusConflict, cErr.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
	case errors.As(err, &tErr):
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if services.IsLockBusy(err) {
			c.Header("Retry-After", "1")
			utils.JSONError(c, http.StatusServiceUnavailable, "room is being booked by another request, please retry")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, tErr.Error()+"; please retry")
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}

// idParam reads a positive numeric path parameter, writing a 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(n), true
}

// optionalUintQuery parses ?key= when present.
func optionalUintQuery(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+key)
		return nil, false
	}
	v := uint(n)
	return &v, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}
