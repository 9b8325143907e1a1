package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"contactbook/contacts-api/internal/model"
	"contactbook/contacts-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UpdateAvatar takes a multipart "avatar" field, squares it to the
// fixed avatar size and swaps the caller's avatar URL to the stored
// copy. Storing the file and updating the row are two independent
// steps; a failed row update leaves the file behind.
func (a *API) UpdateAvatar(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file uploaded",
			"requestID": requestID,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer f.Close()

	img, err := service.NormalizeAvatar(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Unsupported image file",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to process avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	name := fmt.Sprintf("%s_%d_%s", userID, time.Now().UnixMilli(), filepath.Base(fh.Filename))

	avatarURL, err := a.Avatars.Save(c.Request.Context(), name, img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to save image",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	r := a.DB.Model(model.User{}).
		Where("id = ?", userID).
		Update("avatar_url", avatarURL)
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update avatar URL", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"avatarURL": avatarURL,
	})
}
