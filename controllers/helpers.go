package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sanchar-app/chat_backend/store"
)

// respondStoreError translates the store's error taxonomy into the JSON
// failure envelope.
func respondStoreError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, store.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, store.ErrConflict):
		status = http.StatusBadRequest
		message = err.Error()
	}

	c.JSON(status, gin.H{"success": false, "error": message})
}

func currentUserID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}
