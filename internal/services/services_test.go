package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB поднимает изолированную базу в памяти со всеми таблицами
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Classroom{},
		&models.Enrollment{},
		&models.Project{},
		&models.Challenge{},
		&models.ChallengeSubmission{},
		&models.Subject{},
		&models.Assignment{},
		&models.ProjectShare{},
		&models.ParentNotification{},
		&models.EmailLog{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(user))
	return user
}

func seedClassroom(t *testing.T, db *gorm.DB, teacher *models.User, name string) *models.Classroom {
	t.Helper()
	classroom := &models.Classroom{
		ID:        uuid.New(),
		Name:      name,
		Code:      uuid.New().String()[:6],
		TeacherID: teacher.ID,
	}
	require.NoError(t, repository.NewClassroomRepository(db).Create(classroom))
	return classroom
}

func seedEnrollment(t *testing.T, db *gorm.DB, classroom *models.Classroom, student *models.User) *models.Enrollment {
	t.Helper()
	enrollment := &models.Enrollment{
		ID:          uuid.New(),
		ClassroomID: classroom.ID,
		StudentID:   student.ID,
		JoinedAt:    time.Now(),
	}
	require.NoError(t, repository.NewClassroomRepository(db).CreateEnrollment(enrollment))
	return enrollment
}

func seedProject(t *testing.T, db *gorm.DB, student *models.User, classroom *models.Classroom, visibility models.ProjectVisibility) *models.Project {
	t.Helper()
	project := &models.Project{
		ID:          uuid.New(),
		Title:       "Project of " + student.Username,
		Type:        models.ProjectTypeHTML,
		FilePath:    "stub.html",
		Visibility:  visibility,
		StudentID:   student.ID,
		ClassroomID: classroom.ID,
	}
	require.NoError(t, repository.NewProjectRepository(db).Create(project))
	return project
}

// sentMail фиксирует одно отправленное письмо
type sentMail struct {
	to      string
	subject string
	body    string
}

// recordingMailer подменяет почтовый сервис в тестах
type recordingMailer struct {
	sent []sentMail
	fail bool
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
