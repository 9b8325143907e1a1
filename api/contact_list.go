package api

import (
	"net/http"
	"strconv"

	"contactbook/contacts-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) ContactList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	q := a.DB.Model(model.Contact{})

	if v := c.Query("favorite"); v != "" {
		favorite, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "favorite must be a boolean",
				"requestID": requestID,
			})
			return
		}

		q = q.Where("favorite = ?", favorite)
	}

	contacts := []model.Contact{}

	err = q.Offset((page - 1) * limit).
		Limit(limit).
		Find(&contacts).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list contacts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, contacts)
}
