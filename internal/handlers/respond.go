package handlers

import (
	"errors"
	"net/http"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser достает авторизованного пользователя из контекста запроса
func currentUser(c *gin.Context) (*models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := userVal.(*models.User)
	return user, ok
}

// respondError переводит ошибку сервиса в HTTP-статус.
// Закрытые режимы видимости не отличимы от отсутствующих ресурсов
// для прямых обращений: различие утекало бы информацию о проекте.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
