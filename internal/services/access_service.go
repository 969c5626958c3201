package services

import (
	"fmt"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"gorm.io/gorm"
)

// AccessService решает, разрешен ли просмотр проекта.
// Вызывается перед каждым чтением (страница, файл, просмотр кода)
// и не имеет побочных эффектов: счетчик просмотров увеличивает
// вызывающий отдельным шагом уже после разрешения.
type AccessService interface {
	CanAccess(project *models.Project, viewer *models.User) (bool, error)
	CanModify(project *models.Project, viewer *models.User) bool
}

type accessService struct {
	classroomRepo repository.ClassroomRepository
	shareRepo     repository.ShareRepository
}

// NewAccessService создает новый сервис доступа
func NewAccessService(classroomRepo repository.ClassroomRepository, shareRepo repository.ShareRepository) AccessService {
	return &accessService{
		classroomRepo: classroomRepo,
		shareRepo:     shareRepo,
	}
}

// CanAccess проверяет доступ зрителя к проекту.
// Порядок проверок фиксирован, первое совпадение решает;
// неизвестный режим видимости закрывает доступ.
func (s *accessService) CanAccess(project *models.Project, viewer *models.User) (bool, error) {
	// Администратор — всегда
	if viewer.Role == models.RoleAdmin {
		return true, nil
	}

	// Владелец — всегда
	if project.StudentID == viewer.ID {
		return true, nil
	}

	switch project.Visibility {
	case models.VisibilityPublic:
		return true, nil

	case models.VisibilityPrivate:
		// Закрыт даже для одноклассников и преподавателя класса
		return false, nil

	case models.VisibilityClassroom:
		// Преподаватель, владеющий классом проекта
		if viewer.Role.IsTeaching() {
			classroom, err := s.classroomRepo.GetByID(project.ClassroomID)
			if err != nil {
				return false, fmt.Errorf("classroom not found: %w", err)
			}
			return classroom.TeacherID == viewer.ID, nil
		}

		// Родитель с уведомлением по этому проекту
		if viewer.Role == models.RoleParent {
			return s.hasNotification(project, viewer)
		}

		// Ученик с членством в классе проекта
		if viewer.Role == models.RoleStudent {
			_, err := s.classroomRepo.GetEnrollment(project.ClassroomID, viewer.ID)
			if err == gorm.ErrRecordNotFound {
				return false, nil
			}
			if err != nil {
				return false, fmt.Errorf("failed to check enrollment: %w", err)
			}
			return true, nil
		}

		return false, nil

	case models.VisibilityParents:
		// Преподаватель класса либо отмеченный на проекте преподаватель
		if viewer.Role.IsTeaching() {
			if project.TaggedTeacherID != nil && *project.TaggedTeacherID == viewer.ID {
				return true, nil
			}
			classroom, err := s.classroomRepo.GetByID(project.ClassroomID)
			if err != nil {
				return false, fmt.Errorf("classroom not found: %w", err)
			}
			return classroom.TeacherID == viewer.ID, nil
		}

		// Родитель с уведомлением по этому проекту
		if viewer.Role == models.RoleParent {
			return s.hasNotification(project, viewer)
		}

		return false, nil
	}

	// Неизвестный режим видимости — доступ закрыт
	return false, nil
}

// CanModify проверяет право на изменение настроек проекта
func (s *accessService) CanModify(project *models.Project, viewer *models.User) bool {
	return viewer.Role == models.RoleAdmin || project.StudentID == viewer.ID
}

// hasNotification проверяет наличие уведомления родителя по проекту
func (s *accessService) hasNotification(project *models.Project, viewer *models.User) (bool, error) {
	_, err := s.shareRepo.GetNotification(viewer.ID, project.ID)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	return true, nil
}
