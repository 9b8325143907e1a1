package api

import (
	"net/http"

	"contactbook/contacts-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) ContactDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	contactID := c.Param("contactID")

	r := a.DB.Where("id = ?", contactID).Delete(&model.Contact{})
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete contact", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Contact deleted",
		"requestID": requestID,
	})
}
