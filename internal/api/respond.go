package api

import (
	"snapfeed/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError renders an error as "<Kind>: <message>" under the status code
// its kind maps to.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.Status(err), gin.H{"detail": err.Error()})
}
