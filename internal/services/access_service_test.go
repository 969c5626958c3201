package services

import (
	"testing"
	"time"

	"github.com/techwithrichard/smart-student-display/internal/models"
	"github.com/techwithrichard/smart-student-display/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accessFixture собирает окружение для проверок доступа: класс с владельцем,
// автор проекта, одноклассник, посторонние пользователи всех ролей
type accessFixture struct {
	service AccessService

	owner        *models.User // автор проекта
	classmate    *models.User // ученик того же класса
	outsider     *models.User // ученик другого класса
	classTeacher *models.User // преподаватель класса проекта
	otherTeacher *models.User
	notified     *models.User // родитель с уведомлением
	strange      *models.User // родитель без уведомления
	admin        *models.User
	tagged       *models.User // преподаватель, отмеченный на проекте

	classroom *models.Classroom

	// project создает проект автора с заданной видимостью
	// и уведомлением для notified
	project func(models.ProjectVisibility) *models.Project
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()
	db := newTestDB(t)
	classroomRepo := repository.NewClassroomRepository(db)
	shareRepo := repository.NewShareRepository(db)

	f := &accessFixture{
		service:      NewAccessService(classroomRepo, shareRepo),
		owner:        seedUser(t, db, "author", models.RoleStudent),
		classmate:    seedUser(t, db, "classmate", models.RoleStudent),
		outsider:     seedUser(t, db, "outsider", models.RoleStudent),
		classTeacher: seedUser(t, db, "class-teacher", models.RoleTeacher),
		otherTeacher: seedUser(t, db, "other-teacher", models.RoleTeacher),
		notified:     seedUser(t, db, "notified-parent", models.RoleParent),
		strange:      seedUser(t, db, "strange-parent", models.RoleParent),
		admin:        seedUser(t, db, "admin", models.RoleAdmin),
		tagged:       seedUser(t, db, "tagged-teacher", models.RoleTeacher),
	}

	f.classroom = seedClassroom(t, db, f.classTeacher, "5B")
	seedEnrollment(t, db, f.classroom, f.owner)
	seedEnrollment(t, db, f.classroom, f.classmate)

	f.project = func(visibility models.ProjectVisibility) *models.Project {
		p := seedProject(t, db, f.owner, f.classroom, visibility)
		require.NoError(t, shareRepo.CreateNotification(&models.ParentNotification{
			ID:        uuid.New(),
			ParentID:  f.notified.ID,
			ProjectID: p.ID,
			TeacherID: f.classTeacher.ID,
			CreatedAt: time.Now(),
		}))
		return p
	}
	return f
}

// TestCanAccessStaffOwner проверяет, что staff при владении классом
// приравнивается к учителю
func TestCanAccessStaffOwner(t *testing.T) {
	db := newTestDB(t)
	classroomRepo := repository.NewClassroomRepository(db)
	service := NewAccessService(classroomRepo, repository.NewShareRepository(db))

	staff := seedUser(t, db, "staff", models.RoleStaff)
	author := seedUser(t, db, "author", models.RoleStudent)
	classroom := seedClassroom(t, db, staff, "staff class")
	seedEnrollment(t, db, classroom, author)
	project := seedProject(t, db, author, classroom, models.VisibilityClassroom)

	ok, err := service.CanAccess(project, staff)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessPublic(t *testing.T) {
	f := newAccessFixture(t)
	project := f.project(models.VisibilityPublic)

	for _, viewer := range []*models.User{f.owner, f.classmate, f.outsider, f.classTeacher, f.otherTeacher, f.strange, f.admin} {
		ok, err := f.service.CanAccess(project, viewer)
		require.NoError(t, err)
		assert.True(t, ok, "viewer %s", viewer.Username)
	}
}

func TestCanAccessPrivate(t *testing.T) {
	f := newAccessFixture(t)
	project := f.project(models.VisibilityPrivate)

	allowed := map[string]bool{
		f.owner.Username: true,
		f.admin.Username: true,
	}

	// Закрыт даже для преподавателя класса и родителя с уведомлением
	for _, viewer := range []*models.User{f.owner, f.classmate, f.classTeacher, f.notified, f.admin} {
		ok, err := f.service.CanAccess(project, viewer)
		require.NoError(t, err)
		assert.Equal(t, allowed[viewer.Username], ok, "viewer %s", viewer.Username)
	}
}

func TestCanAccessClassroom(t *testing.T) {
	f := newAccessFixture(t)
	project := f.project(models.VisibilityClassroom)

	tests := []struct {
		viewer *models.User
		want   bool
	}{
		{f.owner, true},
		{f.classmate, true},
		{f.outsider, false},
		{f.classTeacher, true},
		{f.otherTeacher, false},
		{f.notified, true},
		{f.strange, false},
		{f.admin, true},
	}
	for _, tt := range tests {
		ok, err := f.service.CanAccess(project, tt.viewer)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "viewer %s", tt.viewer.Username)
	}
}

func TestCanAccessParents(t *testing.T) {
	f := newAccessFixture(t)
	project := f.project(models.VisibilityParents)
	project.TaggedTeacherID = &f.tagged.ID

	tests := []struct {
		viewer *models.User
		want   bool
	}{
		{f.owner, true},
		{f.classmate, false}, // одноклассникам режим parents закрыт
		{f.classTeacher, true},
		{f.tagged, true},
		{f.otherTeacher, false},
		{f.notified, true},
		{f.strange, false},
		{f.admin, true},
	}
	for _, tt := range tests {
		ok, err := f.service.CanAccess(project, tt.viewer)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "viewer %s", tt.viewer.Username)
	}
}

func TestCanAccessUnknownVisibility(t *testing.T) {
	f := newAccessFixture(t)
	project := f.project(models.ProjectVisibility("friends"))

	for _, viewer := range []*models.User{f.classmate, f.classTeacher, f.notified} {
		ok, err := f.service.CanAccess(project, viewer)
		require.NoError(t, err)
		assert.False(t, ok, "viewer %s", viewer.Username)
	}

	// Владельца и администратора неизвестный режим не ограничивает
	ok, err := f.service.CanAccess(project, f.owner)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanModify(t *testing.T) {
	f := newAccessFixture(t)
	project := f.project(models.VisibilityClassroom)

	assert.True(t, f.service.CanModify(project, f.owner))
	assert.True(t, f.service.CanModify(project, f.admin))
	assert.False(t, f.service.CanModify(project, f.classTeacher))
	assert.False(t, f.service.CanModify(project, f.classmate))
}
