package api

import (
	"net/http"

	"contactbook/contacts-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type favoriteBody struct {
	Favorite *bool `json:"favorite"`
}

func (a *API) ContactFavorite(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	contactID := c.Param("contactID")

	var data favoriteBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Favorite == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "missing field favorite",
			"requestID": requestID,
		})
		return
	}

	r := a.DB.Model(model.Contact{}).
		Where("id = ?", contactID).
		Update("favorite", *data.Favorite)
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update favorite flag", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Not found",
			"requestID": requestID,
		})
		return
	}

	var contact model.Contact

	if err := a.DB.Where("id = ?", contactID).First(&contact).Error; err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload contact", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, contact)
}
