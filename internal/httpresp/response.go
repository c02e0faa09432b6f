package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every success response carries success=true next to its payload.

func OK(c *gin.Context, payload gin.H) {
	write(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload gin.H) {
	write(c, http.StatusCreated, payload)
}

func Message(c *gin.Context, message string) {
	write(c, http.StatusOK, gin.H{"message": message})
}

func write(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
