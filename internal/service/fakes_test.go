package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/noah-isme/academy-api/internal/models"
	"github.com/noah-isme/academy-api/internal/repository"
)

type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeUserRepo struct {
	users       map[int64]*models.User
	nextID      int64
	createCalls int
	findErr     error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[int64]*models.User{}}
	for _, user := range users {
		repo.put(user)
	}
	return repo
}

func (f *fakeUserRepo) put(user *models.User) {
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	}
	if user.ID > f.nextID {
		f.nextID = user.ID
	}
	f.users[user.ID] = user
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByTeacherID(ctx context.Context, teacherID int64) (*models.User, error) {
	for _, user := range f.users {
		if user.TeacherID != nil && *user.TeacherID == teacherID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.createCalls++
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	stored := *user
	f.put(&stored)
	user.ID = stored.ID
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) LinkTeacher(ctx context.Context, id, teacherID int64) error {
	user, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.TeacherID = &teacherID
	return nil
}

func (f *fakeUserRepo) SyncTeacherAccount(ctx context.Context, teacherID int64, username, displayName, passwordHash string) error {
	for _, user := range f.users {
		if user.TeacherID == nil || *user.TeacherID != teacherID {
			continue
		}
		user.Username = username
		user.DisplayName = displayName
		if passwordHash != "" {
			user.PasswordHash = passwordHash
		}
	}
	return nil
}

type fakeTeacherRepo struct {
	teachers map[int64]*models.Teacher
	nextID   int64
}

func newFakeTeacherRepo(teachers ...*models.Teacher) *fakeTeacherRepo {
	repo := &fakeTeacherRepo{teachers: map[int64]*models.Teacher{}}
	for _, teacher := range teachers {
		stored := *teacher
		if stored.ID == 0 {
			repo.nextID++
			stored.ID = repo.nextID
		}
		if stored.ID > repo.nextID {
			repo.nextID = stored.ID
		}
		repo.teachers[stored.ID] = &stored
	}
	return repo
}

func (f *fakeTeacherRepo) List(ctx context.Context) ([]*models.Teacher, error) {
	out := make([]*models.Teacher, 0, len(f.teachers))
	for _, teacher := range f.teachers {
		clone := *teacher
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *teacher
	return &clone, nil
}

func (f *fakeTeacherRepo) FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	for _, teacher := range f.teachers {
		if teacher.TeacherID == teacherID {
			clone := *teacher
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherRepo) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Teacher, error) {
	out := make(map[int64]*models.Teacher, len(ids))
	for _, id := range ids {
		if teacher, ok := f.teachers[id]; ok {
			clone := *teacher
			out[id] = &clone
		}
	}
	return out, nil
}

func (f *fakeTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	for _, existing := range f.teachers {
		if existing.TeacherID == teacher.TeacherID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	teacher.ID = f.nextID
	stored := *teacher
	f.teachers[teacher.ID] = &stored
	return nil
}

func (f *fakeTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if _, ok := f.teachers[teacher.ID]; !ok {
		return sql.ErrNoRows
	}
	for id, existing := range f.teachers {
		if id != teacher.ID && existing.TeacherID == teacher.TeacherID {
			return repository.ErrDuplicate
		}
	}
	stored := *teacher
	f.teachers[teacher.ID] = &stored
	return nil
}

func (f *fakeTeacherRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.teachers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.teachers, id)
	return nil
}

type fakeClassRepo struct {
	classes map[int64]*models.Class
	nextID  int64
}

func newFakeClassRepo(classes ...*models.Class) *fakeClassRepo {
	repo := &fakeClassRepo{classes: map[int64]*models.Class{}}
	for _, class := range classes {
		stored := *class
		repo.classes[stored.ID] = &stored
		if stored.ID > repo.nextID {
			repo.nextID = stored.ID
		}
	}
	return repo
}

func (f *fakeClassRepo) sorted(filter func(*models.Class) bool) []*models.Class {
	out := []*models.Class{}
	for _, class := range f.classes {
		if filter(class) {
			clone := *class
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeClassRepo) List(ctx context.Context) ([]*models.Class, error) {
	return f.sorted(func(*models.Class) bool { return true }), nil
}

func (f *fakeClassRepo) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Class, error) {
	return f.sorted(func(c *models.Class) bool { return c.TeacherID != nil && *c.TeacherID == teacherID }), nil
}

func (f *fakeClassRepo) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *class
	return &clone, nil
}

func (f *fakeClassRepo) Create(ctx context.Context, class *models.Class) error {
	f.nextID++
	class.ID = f.nextID
	stored := *class
	f.classes[class.ID] = &stored
	return nil
}

func (f *fakeClassRepo) Update(ctx context.Context, class *models.Class) error {
	if _, ok := f.classes[class.ID]; !ok {
		return sql.ErrNoRows
	}
	stored := *class
	f.classes[class.ID] = &stored
	return nil
}

func (f *fakeClassRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.classes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.classes, id)
	return nil
}

type fakeStudentRepo struct {
	students map[int64]*models.Student
	nextID   int64
}

func newFakeStudentRepo(students ...*models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: map[int64]*models.Student{}}
	for _, student := range students {
		stored := *student
		repo.students[stored.ID] = &stored
		if stored.ID > repo.nextID {
			repo.nextID = stored.ID
		}
	}
	return repo
}

func (f *fakeStudentRepo) sorted(filter func(*models.Student) bool) []*models.Student {
	out := []*models.Student{}
	for _, student := range f.students {
		if filter(student) {
			clone := *student
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStudentRepo) List(ctx context.Context) ([]*models.Student, error) {
	return f.sorted(func(*models.Student) bool { return true }), nil
}

func (f *fakeStudentRepo) ListByClass(ctx context.Context, classID int64) ([]*models.Student, error) {
	return f.sorted(func(s *models.Student) bool { return s.ClassID != nil && *s.ClassID == classID }), nil
}

func (f *fakeStudentRepo) SummariesByClassIDs(ctx context.Context, classIDs []int64) (map[int64][]models.StudentSummary, error) {
	out := map[int64][]models.StudentSummary{}
	for _, classID := range classIDs {
		for _, student := range f.sorted(func(s *models.Student) bool { return s.ClassID != nil && *s.ClassID == classID }) {
			out[classID] = append(out[classID], models.StudentSummary{ID: student.ID, Name: student.Name, ClassID: classID})
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *student
	return &clone, nil
}

func (f *fakeStudentRepo) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Student, error) {
	out := map[int64]*models.Student{}
	for _, id := range ids {
		if student, ok := f.students[id]; ok {
			clone := *student
			out[id] = &clone
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	f.nextID++
	student.ID = f.nextID
	stored := *student
	f.students[student.ID] = &stored
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	stored := *student
	f.students[student.ID] = &stored
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) DetachAllFromClass(ctx context.Context, classID int64) error {
	for _, student := range f.students {
		if student.ClassID != nil && *student.ClassID == classID {
			student.ClassID = nil
		}
	}
	return nil
}

func (f *fakeStudentRepo) AttachToClass(ctx context.Context, studentID, classID int64) (bool, error) {
	student, ok := f.students[studentID]
	if !ok {
		return false, nil
	}
	id := classID
	student.ClassID = &id
	return true, nil
}

type fakeTodoRepo struct {
	todos   map[int64]*models.Todo
	nextID  int64
	deleted []int64
	filters []models.TodoFilter
}

func newFakeTodoRepo(todos ...models.Todo) *fakeTodoRepo {
	repo := &fakeTodoRepo{todos: map[int64]*models.Todo{}}
	for _, todo := range todos {
		stored := todo
		repo.todos[stored.ID] = &stored
		if stored.ID > repo.nextID {
			repo.nextID = stored.ID
		}
	}
	return repo
}

func (f *fakeTodoRepo) sorted(filter func(*models.Todo) bool) []models.Todo {
	out := []models.Todo{}
	for _, todo := range f.todos {
		if filter(todo) {
			out = append(out, *todo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTodoRepo) ListByClass(ctx context.Context, classID int64) ([]models.Todo, error) {
	return f.sorted(func(t *models.Todo) bool { return t.ClassID == classID }), nil
}

func (f *fakeTodoRepo) List(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error) {
	f.filters = append(f.filters, filter)
	return f.sorted(func(t *models.Todo) bool {
		if t.ClassID != filter.ClassID {
			return false
		}
		if filter.Year != nil && t.Date.Year() != *filter.Year {
			return false
		}
		if filter.Month != nil && int(t.Date.Month()) != *filter.Month {
			return false
		}
		return true
	}), nil
}

func (f *fakeTodoRepo) ListByClassIDs(ctx context.Context, classIDs []int64) (map[int64][]models.Todo, error) {
	out := map[int64][]models.Todo{}
	for _, classID := range classIDs {
		if todos := f.sorted(func(t *models.Todo) bool { return t.ClassID == classID }); len(todos) > 0 {
			out[classID] = todos
		}
	}
	return out, nil
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *models.Todo) error {
	f.nextID++
	todo.ID = f.nextID
	stored := *todo
	f.todos[todo.ID] = &stored
	return nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo *models.Todo) error {
	current, ok := f.todos[todo.ID]
	if !ok || current.ClassID != todo.ClassID {
		return sql.ErrNoRows
	}
	stored := *todo
	f.todos[todo.ID] = &stored
	return nil
}

func (f *fakeTodoRepo) DeleteByIDs(ctx context.Context, classID int64, ids []int64) error {
	for _, id := range ids {
		if todo, ok := f.todos[id]; ok && todo.ClassID == classID {
			delete(f.todos, id)
			f.deleted = append(f.deleted, id)
		}
	}
	return nil
}

type fakeReportRepo struct {
	reports   []models.Report
	createErr error
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	if f.createErr != nil {
		return f.createErr
	}
	report.ID = int64(len(f.reports) + 1)
	report.CreatedAt = time.Date(2024, 3, 1, 8, 0, len(f.reports), 0, time.UTC)
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReportRepo) ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error) {
	out := []models.Report{}
	for i := len(f.reports) - 1; i >= 0; i-- {
		if f.reports[i].StudentID == studentID {
			out = append(out, f.reports[i])
		}
	}
	return out, nil
}

type fakeFixtureRepo struct {
	fixtures map[int64]*models.Fixture
	nextID   int64
	listErr  error
}

func newFakeFixtureRepo(fixtures ...models.Fixture) *fakeFixtureRepo {
	repo := &fakeFixtureRepo{fixtures: map[int64]*models.Fixture{}}
	for _, fixture := range fixtures {
		stored := fixture
		repo.fixtures[stored.ID] = &stored
		if stored.ID > repo.nextID {
			repo.nextID = stored.ID
		}
	}
	return repo
}

func (f *fakeFixtureRepo) All(ctx context.Context) ([]*models.Fixture, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Fixture{}
	for _, fixture := range f.fixtures {
		clone := *fixture
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFixtureRepo) List(ctx context.Context, limit, offset int) ([]*models.Fixture, int, error) {
	all, err := f.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	if offset >= len(all) {
		return []*models.Fixture{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (f *fakeFixtureRepo) FindByID(ctx context.Context, id int64) (*models.Fixture, error) {
	fixture, ok := f.fixtures[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *fixture
	return &clone, nil
}

func (f *fakeFixtureRepo) Create(ctx context.Context, fixture *models.Fixture) error {
	f.nextID++
	fixture.ID = f.nextID
	stored := *fixture
	f.fixtures[fixture.ID] = &stored
	return nil
}

func (f *fakeFixtureRepo) Update(ctx context.Context, fixture *models.Fixture) error {
	if _, ok := f.fixtures[fixture.ID]; !ok {
		return sql.ErrNoRows
	}
	stored := *fixture
	f.fixtures[fixture.ID] = &stored
	return nil
}

func (f *fakeFixtureRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.fixtures[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.fixtures, id)
	return nil
}

type fakeBlacklist struct {
	entries map[string]time.Duration
	addErr  error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: map[string]time.Duration{}}
}

func (f *fakeBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if f.addErr != nil {
		return f.addErr
	}
	if jti == "" {
		return errors.New("empty jti")
	}
	f.entries[jti] = ttl
	return nil
}

func (f *fakeBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	_, ok := f.entries[jti]
	return ok, nil
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
