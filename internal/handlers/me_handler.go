package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/middleware"
	"github.com/BruksfildServices01/company-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Company").
		Where("id = ? AND company_id = ?", userID, companyFromContext(c)).
		First(&user).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"phone":      user.Phone,
			"role":       user.Role,
			"can_serve":  user.CanServe,
			"is_trainee": user.IsTrainee,
			"company_id": user.CompanyID,
		},
		"company": gin.H{
			"id":       user.Company.ID,
			"name":     user.Company.Name,
			"slug":     user.Company.Slug,
			"timezone": user.Company.Timezone,
		},
	})
}
