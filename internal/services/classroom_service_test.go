package services

import (
	"regexp"
	"testing"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClassroomService(t *testing.T) (*ClassroomService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewClassroomService(repository.NewClassroomRepository(db), repository.NewUserRepository(db)), db
}

func TestCreateClassroomGeneratesCode(t *testing.T) {
	service, db := newClassroomService(t)
	teacher := seedUser(t, db, "teacher", models.RoleTeacher)

	classroom, err := service.CreateClassroom(teacher, "5B", "")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), classroom.Code)
}

func TestCreateClassroomDuplicateCode(t *testing.T) {
	service, db := newClassroomService(t)
	teacher := seedUser(t, db, "teacher", models.RoleTeacher)

	_, err := service.CreateClassroom(teacher, "5B", "CODE42")
	require.NoError(t, err)

	_, err = service.CreateClassroom(teacher, "5V", "CODE42")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestJoinClassroom(t *testing.T) {
	service, db := newClassroomService(t)
	teacher := seedUser(t, db, "teacher", models.RoleTeacher)
	student := seedUser(t, db, "student", models.RoleStudent)

	classroom, err := service.CreateClassroom(teacher, "5B", "CODE42")
	require.NoError(t, err)

	joined, err := service.JoinClassroom(student, "CODE42")
	require.NoError(t, err)
	assert.Equal(t, classroom.ID, joined.ID)

	// Повторное вступление отклоняется
	_, err = service.JoinClassroom(student, "CODE42")
	assert.ErrorIs(t, err, ErrValidation)

	// Несуществующий код
	_, err = service.JoinClassroom(student, "NOCODE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveStudent(t *testing.T) {
	service, db := newClassroomService(t)
	teacher := seedUser(t, db, "teacher", models.RoleTeacher)
	foreign := seedUser(t, db, "foreign-teacher", models.RoleTeacher)
	student := seedUser(t, db, "student", models.RoleStudent)

	classroom := seedClassroom(t, db, teacher, "5B")
	seedEnrollment(t, db, classroom, student)

	assert.ErrorIs(t, service.RemoveStudent(foreign, classroom.ID, student.ID), ErrAccessDenied)

	require.NoError(t, service.RemoveStudent(teacher, classroom.ID, student.ID))

	// Членства больше нет
	assert.ErrorIs(t, service.RemoveStudent(teacher, classroom.ID, student.ID), ErrNotFound)
}

func TestLeaderboard(t *testing.T) {
	service, db := newClassroomService(t)
	classroomRepo := repository.NewClassroomRepository(db)

	teacher := seedUser(t, db, "teacher", models.RoleTeacher)
	classroom := seedClassroom(t, db, teacher, "5B")

	first := seedUser(t, db, "first", models.RoleStudent)
	second := seedUser(t, db, "second", models.RoleStudent)
	third := seedUser(t, db, "third", models.RoleStudent)

	require.NoError(t, classroomRepo.AddPoints(seedEnrollment(t, db, classroom, first).ID, 30))
	require.NoError(t, classroomRepo.AddPoints(seedEnrollment(t, db, classroom, second).ID, 50))
	seedEnrollment(t, db, classroom, third)

	leaderboard, err := service.Leaderboard(classroom.ID, 2)
	require.NoError(t, err)

	require.Len(t, leaderboard, 2)
	assert.Equal(t, LeaderboardEntry{Username: "second", Points: 50}, leaderboard[0])
	assert.Equal(t, LeaderboardEntry{Username: "first", Points: 30}, leaderboard[1])
}
