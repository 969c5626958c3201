package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/services"
	"github.com/techwithrichard/smart-student-display/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShareHandler представляет обработчик кодов доступа и уведомлений
type ShareHandler struct {
	shareService *services.ShareService
	store        *storage.Storage
}

// NewShareHandler создает новый обработчик кодов доступа
func NewShareHandler(shareService *services.ShareService, store *storage.Storage) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		store:        store,
	}
}

// GenerateCodeRequest представляет запрос на выпуск кода доступа
type GenerateCodeRequest struct {
	// ExpiresInHours — срок действия кода; ноль означает бессрочный код
	ExpiresInHours int `json:"expires_in_hours"`
}

// GenerateCode выпускает либо перегенерирует код доступа к проекту
func (h *ShareHandler) GenerateCode(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req GenerateCodeRequest
	_ = c.ShouldBindJSON(&req)

	var expiresAt *time.Time
	if req.ExpiresInHours > 0 {
		t := time.Now().Add(time.Duration(req.ExpiresInHours) * time.Hour)
		expiresAt = &t
	}

	share, err := h.shareService.GenerateCode(user, projectID, expiresAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, share)
}

// ViewShared отдает проект по коду доступа. Ссылка из письма сама
// является авторизацией: аккаунт для просмотра не требуется.
func (h *ShareHandler) ViewShared(c *gin.Context) {
	project, err := h.shareService.ResolveCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ServeSharedFile отдает файл проекта по коду доступа с той же
// проверкой пути, что и обычная раздача файлов
func (h *ShareHandler) ServeSharedFile(c *gin.Context) {
	project, err := h.shareService.ResolveCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	resolved, err := resolveProjectPath(h.store, project, c.Param("filepath"))
	if err != nil {
		if err == storage.ErrInvalidPath {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(resolved)
}

// EmailRequest представляет запрос на отправку проекта родителю
type EmailRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

// EmailProject отправляет родителю письмо со ссылкой на проект
func (h *ShareHandler) EmailProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.shareService.EmailProject(user, projectID, strings.TrimSpace(req.Recipient)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// NotifyParents рассылает родителям класса последние проекты их детей
func (h *ShareHandler) NotifyParents(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	classroomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid classroom ID"})
		return
	}

	result, err := h.shareService.NotifyClassroomParents(user, classroomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListNotifications возвращает уведомления родителя
func (h *ShareHandler) ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notifications, err := h.shareService.ListNotifications(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead помечает уведомление прочитанным
func (h *ShareHandler) MarkNotificationRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.shareService.MarkNotificationRead(user, notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
