package services

import (
	"testing"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// challengeFixture собирает сервис челленджей с заполненным классом
type challengeFixture struct {
	service *ChallengeService
	db      *gorm.DB

	teacher    *models.User
	student    *models.User
	classroom  *models.Classroom
	enrollment *models.Enrollment
	project    *models.Project
	challenge  *models.Challenge
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()
	db := newTestDB(t)

	f := &challengeFixture{
		db:      db,
		teacher: seedUser(t, db, "teacher", models.RoleTeacher),
		student: seedUser(t, db, "student", models.RoleStudent),
	}
	f.classroom = seedClassroom(t, db, f.teacher, "8D")
	f.enrollment = seedEnrollment(t, db, f.classroom, f.student)
	f.project = seedProject(t, db, f.student, f.classroom, models.VisibilityClassroom)

	f.service = NewChallengeService(
		repository.NewChallengeRepository(db),
		repository.NewClassroomRepository(db),
		repository.NewProjectRepository(db),
	)

	challenge, err := f.service.CreateChallenge(f.teacher, f.classroom.ID, "CSS art", "Draw with pure CSS", 25)
	require.NoError(t, err)
	f.challenge = challenge
	return f
}

// points читает текущие очки ученика в классе
func (f *challengeFixture) points(t *testing.T) int {
	t.Helper()
	enrollment, err := repository.NewClassroomRepository(f.db).GetEnrollment(f.classroom.ID, f.student.ID)
	require.NoError(t, err)
	return enrollment.Points
}

func TestCreateChallengeDefaultPoints(t *testing.T) {
	f := newChallengeFixture(t)

	challenge, err := f.service.CreateChallenge(f.teacher, f.classroom.ID, "Easy one", "Anything goes", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, challenge.Points)
}

func TestCreateChallengeDeniedForForeignTeacher(t *testing.T) {
	f := newChallengeFixture(t)
	foreign := seedUser(t, f.db, "foreign-teacher", models.RoleTeacher)

	_, err := f.service.CreateChallenge(foreign, f.classroom.ID, "Hack", "No", 5)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSubmitChallengeAwardsPoints(t *testing.T) {
	f := newChallengeFixture(t)

	submission, err := f.service.SubmitChallenge(f.student, f.challenge.ID, f.project.ID)
	require.NoError(t, err)

	assert.Equal(t, 25, submission.PointsAwarded)
	assert.Equal(t, 25, f.points(t))
}

func TestSubmitChallengeDuplicateRejected(t *testing.T) {
	f := newChallengeFixture(t)

	_, err := f.service.SubmitChallenge(f.student, f.challenge.ID, f.project.ID)
	require.NoError(t, err)

	// Повторный зачёт отклоняется, очки не меняются
	_, err = f.service.SubmitChallenge(f.student, f.challenge.ID, f.project.ID)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 25, f.points(t))
}

func TestSubmitChallengeForeignProject(t *testing.T) {
	f := newChallengeFixture(t)

	other := seedUser(t, f.db, "other-student", models.RoleStudent)
	seedEnrollment(t, f.db, f.classroom, other)
	foreignProject := seedProject(t, f.db, other, f.classroom, models.VisibilityClassroom)

	_, err := f.service.SubmitChallenge(f.student, f.challenge.ID, foreignProject.ID)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, f.points(t))
}

func TestSubmitChallengeProjectFromOtherClassroom(t *testing.T) {
	f := newChallengeFixture(t)

	otherClass := seedClassroom(t, f.db, f.teacher, "other class")
	seedEnrollment(t, f.db, otherClass, f.student)
	otherProject := seedProject(t, f.db, f.student, otherClass, models.VisibilityClassroom)

	_, err := f.service.SubmitChallenge(f.student, f.challenge.ID, otherProject.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitChallengeMissingChallenge(t *testing.T) {
	f := newChallengeFixture(t)

	_, err := f.service.SubmitChallenge(f.student, uuid.New(), f.project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
