package api

import (
	"net/http"

	"contactbook/contacts-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VerifyEmail exchanges a mailed verification token for a verified
// account. The token stays on the row after use so a second visit to
// the same link answers "already verified" instead of a bare 404.
func (a *API) VerifyEmail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	token := c.Param("token")

	var user model.User

	err := a.DB.Where("verification_token = ?", token).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.Verified {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Verification has already been passed",
			"requestID": requestID,
		})
		return
	}

	if err := a.DB.Model(&user).Update("verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to mark user verified", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification successful",
		"requestID": requestID,
	})
}
