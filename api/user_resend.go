package api

import (
	"net/http"
	"time"

	"contactbook/contacts-api/internal/model"
	"contactbook/contacts-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resendCooldown = time.Minute

type resendBody struct {
	Email string `json:"email"`
}

func (a *API) ResendVerification(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "missing required field email",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", data.Email).First(&user).Error
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

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.Verified {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Verification has already been passed",
			"requestID": requestID,
		})
		return
	}

	var resend model.ResendRequest

	err = a.DB.Where("user_id = ?", user.ID).First(&resend).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up resend request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err == nil && time.Now().Before(resend.Cooldown) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Please wait before requesting another verification email",
			"requestID": requestID,
		})
		return
	}

	verifToken, err := security.NewVerificationToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.DB.Model(&user).Update("verification_token", verifToken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := a.Mailer.SendVerification(verifToken, user.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	now := time.Now()
	resend.UserID = user.ID
	resend.LastResend = now
	resend.Cooldown = now.Add(resendCooldown)

	if err := a.DB.Save(&resend).Error; err != nil {
		zap.L().Error("Failed to store resend cooldown", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification email sent",
		"requestID": requestID,
	})
}
