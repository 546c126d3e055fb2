package utils

import "github.com/gin-gonic/gin"

// JSONError writes the error envelope, echoing the request id when the
// logger middleware assigned one.
func JSONError(c *gin.Context, code int, message string) {
	body := gin.H{"success": false, "error": message}
	if id, ok := c.Get("request_id"); ok {
		body["request_id"] = id
	}
	c.JSON(code, body)
}
