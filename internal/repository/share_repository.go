package repository

import (
	"github.com/techwithrichard/smart-student-display/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareRepository интерфейс для работы с кодами доступа и уведомлениями родителей
type ShareRepository interface {
	UpsertShare(share *models.ProjectShare) error
	GetShare(projectID, teacherID uuid.UUID) (*models.ProjectShare, error)
	GetShareByCode(code string) (*models.ProjectShare, error)

	CreateNotification(notification *models.ParentNotification) error
	GetNotification(parentID, projectID uuid.UUID) (*models.ParentNotification, error)
	ListNotificationsByParent(parentID uuid.UUID) ([]models.ParentNotification, error)
	MarkNotificationRead(id uuid.UUID) error

	CreateEmailLog(entry *models.EmailLog) error
}

// shareRepository реализация репозитория кодов доступа
type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository создает новый репозиторий кодов доступа
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

// UpsertShare создает код доступа или перезаписывает существующий
// для пары (проект, преподаватель). Старый код при этом перестает действовать.
func (r *shareRepository) UpsertShare(share *models.ProjectShare) error {
	existing, err := r.GetShare(share.ProjectID, share.TeacherID)
	if err == nil {
		share.ID = existing.ID
		return r.db.Save(share).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	if share.ID == uuid.Nil {
		share.ID = uuid.New()
	}
	return r.db.Create(share).Error
}

// GetShare получает код доступа по паре (проект, преподаватель)
func (r *shareRepository) GetShare(projectID, teacherID uuid.UUID) (*models.ProjectShare, error) {
	var share models.ProjectShare
	err := r.db.Where("project_id = ? AND teacher_id = ?", projectID, teacherID).First(&share).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// GetShareByCode получает код доступа по значению кода
func (r *shareRepository) GetShareByCode(code string) (*models.ProjectShare, error) {
	var share models.ProjectShare
	err := r.db.Preload("Project").Where("code = ?", code).First(&share).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// CreateNotification создает уведомление родителю
func (r *shareRepository) CreateNotification(notification *models.ParentNotification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return r.db.Create(notification).Error
}

// GetNotification получает уведомление по паре (родитель, проект)
func (r *shareRepository) GetNotification(parentID, projectID uuid.UUID) (*models.ParentNotification, error) {
	var notification models.ParentNotification
	err := r.db.Where("parent_id = ? AND project_id = ?", parentID, projectID).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListNotificationsByParent получает уведомления родителя
func (r *shareRepository) ListNotificationsByParent(parentID uuid.UUID) ([]models.ParentNotification, error) {
	var notifications []models.ParentNotification
	err := r.db.Preload("Project").
		Where("parent_id = ?", parentID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead помечает уведомление прочитанным
func (r *shareRepository) MarkNotificationRead(id uuid.UUID) error {
	return r.db.Model(&models.ParentNotification{}).
		Where("id = ?", id).
		UpdateColumn("is_read", true).Error
}

// CreateEmailLog создает запись об отправке письма
func (r *shareRepository) CreateEmailLog(entry *models.EmailLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.Create(entry).Error
}
