package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"
	"github.com/techwithrichard/smart-student-display/pkg/mailer"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// shareCodeLength — длина кода доступа к проекту
const shareCodeLength = 8

// BulkSendResult представляет итог массовой рассылки
type BulkSendResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ShareService представляет сервис кодов доступа и рассылки родителям
type ShareService struct {
	shareRepo     repository.ShareRepository
	projectRepo   repository.ProjectRepository
	classroomRepo repository.ClassroomRepository
	userRepo      repository.UserRepository
	mail          mailer.Mailer
	baseURL       string
}

// NewShareService создает новый сервис кодов доступа
func NewShareService(
	shareRepo repository.ShareRepository,
	projectRepo repository.ProjectRepository,
	classroomRepo repository.ClassroomRepository,
	userRepo repository.UserRepository,
	mail mailer.Mailer,
	baseURL string,
) *ShareService {
	return &ShareService{
		shareRepo:     shareRepo,
		projectRepo:   projectRepo,
		classroomRepo: classroomRepo,
		userRepo:      userRepo,
		mail:          mail,
		baseURL:       baseURL,
	}
}

// GenerateCode создает либо перегенерирует код доступа к проекту.
// Код уникален для пары (проект, преподаватель); новый код
// перезаписывает предыдущий, и старая ссылка перестает действовать.
func (s *ShareService) GenerateCode(teacher *models.User, projectID uuid.UUID, expiresAt *time.Time) (*models.ProjectShare, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if err := s.checkTeacherAccess(teacher, project); err != nil {
		return nil, err
	}

	code, err := randomCode(shareCodeLength)
	if err != nil {
		return nil, err
	}

	share := &models.ProjectShare{
		Code:      code,
		ProjectID: projectID,
		TeacherID: teacher.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.shareRepo.UpsertShare(share); err != nil {
		return nil, fmt.Errorf("failed to save share code: %w", err)
	}
	return share, nil
}

// ResolveCode находит проект по коду доступа; истекшие коды
// не отличаются от несуществующих
func (s *ShareService) ResolveCode(code string) (*models.Project, error) {
	share, err := s.shareRepo.GetShareByCode(code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: share code", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load share code: %w", err)
	}
	if share.IsExpired(time.Now()) {
		return nil, fmt.Errorf("%w: share code", ErrNotFound)
	}
	return &share.Project, nil
}

// EmailProject отправляет родителю письмо со ссылкой на проект.
// У ученика должен быть зарегистрирован родительский адрес; для
// непубличных проектов адрес получателя обязан совпадать с ним
// без учета регистра. Результат отправки записывается в журнал;
// при успехе родителю с таким адресом создается уведомление.
func (s *ShareService) EmailProject(teacher *models.User, projectID uuid.UUID, recipient string) error {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: project", ErrNotFound)
		}
		return fmt.Errorf("failed to load project: %w", err)
	}

	if err := s.checkTeacherAccess(teacher, project); err != nil {
		return err
	}

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return fmt.Errorf("%w: recipient address is required", ErrValidation)
	}

	parentEmail := project.Student.ParentEmail
	if parentEmail == "" {
		return fmt.Errorf("%w: student has no registered parent address", ErrValidation)
	}
	if project.Visibility != models.VisibilityPublic && !strings.EqualFold(recipient, parentEmail) {
		return fmt.Errorf("%w: recipient must match the student's parent address", ErrAccessDenied)
	}

	share, err := s.shareForMailing(teacher, project)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Project shared with you: %s", project.Title)
	body := fmt.Sprintf(
		"%s has shared the project %q by %s with you.\n\nView it here: %s/shared/%s\n",
		teacher.Username, project.Title, project.Student.Username, s.baseURL, share.Code,
	)

	sendErr := s.mail.Send(recipient, subject, body)
	s.logEmail(recipient, project.ID, teacher.ID, sendErr)
	if sendErr != nil {
		return fmt.Errorf("failed to deliver email: %w", sendErr)
	}

	s.notifyParent(recipient, project, teacher, share.Code)
	return nil
}

// NotifyClassroomParents рассылает родителям учеников класса их последние
// проекты. Ученики без родительского адреса или без проектов пропускаются;
// отказ доставки одного письма не прерывает остальные.
func (s *ShareService) NotifyClassroomParents(teacher *models.User, classroomID uuid.UUID) (*BulkSendResult, error) {
	classroom, err := s.classroomRepo.GetByID(classroomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: classroom", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load classroom: %w", err)
	}
	if classroom.TeacherID != teacher.ID && teacher.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not the classroom owner", ErrAccessDenied)
	}

	enrollments, err := s.classroomRepo.ListEnrollments(classroomID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}

	result := &BulkSendResult{}
	for _, e := range enrollments {
		if e.Student.ParentEmail == "" {
			continue
		}

		projects, err := s.projectRepo.ListByStudent(e.StudentID)
		if err != nil {
			return result, fmt.Errorf("failed to load projects: %w", err)
		}

		var latest *models.Project
		for i := range projects {
			if projects[i].ClassroomID == classroomID {
				latest = &projects[i]
				break
			}
		}
		if latest == nil {
			continue
		}

		if err := s.EmailProject(teacher, latest.ID, e.Student.ParentEmail); err != nil {
			result.Failed++
			continue
		}
		result.Succeeded++
	}
	return result, nil
}

// ListNotifications получает уведомления родителя
func (s *ShareService) ListNotifications(parent *models.User) ([]models.ParentNotification, error) {
	return s.shareRepo.ListNotificationsByParent(parent.ID)
}

// MarkNotificationRead помечает уведомление родителя прочитанным
func (s *ShareService) MarkNotificationRead(parent *models.User, notificationID uuid.UUID) error {
	notifications, err := s.shareRepo.ListNotificationsByParent(parent.ID)
	if err != nil {
		return fmt.Errorf("failed to load notifications: %w", err)
	}
	for _, n := range notifications {
		if n.ID == notificationID {
			return s.shareRepo.MarkNotificationRead(notificationID)
		}
	}
	return fmt.Errorf("%w: notification", ErrNotFound)
}

// checkTeacherAccess проверяет, что преподаватель владеет классом проекта
// либо отмечен на проекте
func (s *ShareService) checkTeacherAccess(teacher *models.User, project *models.Project) error {
	if teacher.Role == models.RoleAdmin {
		return nil
	}
	if !teacher.Role.IsTeaching() {
		return fmt.Errorf("%w: teacher role required", ErrAccessDenied)
	}
	if project.TaggedTeacherID != nil && *project.TaggedTeacherID == teacher.ID {
		return nil
	}

	classroom, err := s.classroomRepo.GetByID(project.ClassroomID)
	if err != nil {
		return fmt.Errorf("failed to load classroom: %w", err)
	}
	if classroom.TeacherID != teacher.ID {
		return fmt.Errorf("%w: not the classroom owner", ErrAccessDenied)
	}
	return nil
}

// shareForMailing возвращает действующий код доступа для письма,
// создавая новый только при отсутствии или истечении текущего
func (s *ShareService) shareForMailing(teacher *models.User, project *models.Project) (*models.ProjectShare, error) {
	share, err := s.shareRepo.GetShare(project.ID, teacher.ID)
	if err == nil && !share.IsExpired(time.Now()) {
		return share, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load share code: %w", err)
	}
	return s.GenerateCode(teacher, project.ID, nil)
}

// logEmail записывает результат отправки письма в журнал
func (s *ShareService) logEmail(recipient string, projectID, teacherID uuid.UUID, sendErr error) {
	entry := &models.EmailLog{
		ID:        uuid.New(),
		Recipient: recipient,
		ProjectID: projectID,
		TeacherID: teacherID,
		Status:    models.EmailStatusSent,
		CreatedAt: time.Now(),
	}
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		entry.Error = sendErr.Error()
	}
	if err := s.shareRepo.CreateEmailLog(entry); err != nil {
		log.Printf("Failed to write email log: %v", err)
	}
}

// notifyParent создает уведомление родителю, если с таким адресом
// зарегистрирован родительский аккаунт
func (s *ShareService) notifyParent(recipient string, project *models.Project, teacher *models.User, code string) {
	parent, err := s.userRepo.GetByEmail(recipient)
	if err != nil || parent.Role != models.RoleParent {
		return
	}

	// Повторное письмо не плодит дубликатов
	if _, err := s.shareRepo.GetNotification(parent.ID, project.ID); err == nil {
		return
	}

	notification := &models.ParentNotification{
		ID:        uuid.New(),
		ParentID:  parent.ID,
		ProjectID: project.ID,
		TeacherID: teacher.ID,
		ShareCode: code,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.shareRepo.CreateNotification(notification); err != nil {
		log.Printf("Failed to create parent notification: %v", err)
	}
}
