package handler

import (
	"context"

	"github.com/noah-isme/academy-api/internal/dto"
	"github.com/noah-isme/academy-api/internal/models"
	"github.com/noah-isme/academy-api/internal/service"
)

type authServiceMock struct {
	loginResp   *models.LoginResponse
	loginErr    error
	lastLogin   models.LoginRequest
	refreshResp *models.RefreshResponse
	refreshErr  error
	logoutErr   error
	logoutCalls int
	changeErr   error
	changedFor  int64
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastLogin = req
	return m.loginResp, m.loginErr
}

func (m *authServiceMock) Refresh(ctx context.Context, req models.RefreshRequest) (*models.RefreshResponse, error) {
	return m.refreshResp, m.refreshErr
}

func (m *authServiceMock) Logout(ctx context.Context, req models.LogoutRequest) error {
	m.logoutCalls++
	return m.logoutErr
}

func (m *authServiceMock) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	m.changedFor = userID
	return m.changeErr
}

type classServiceMock struct {
	listResp    *models.ClassList
	getResp     *models.ClassView
	getErr      error
	createResp  *models.ClassCreated
	createErr   error
	lastPayload dto.ClassPayload
	updatedID   int64
	deletedID   int64
}

func (m *classServiceMock) List(ctx context.Context) (*models.ClassList, error) {
	return m.listResp, nil
}

func (m *classServiceMock) Classrooms(ctx context.Context) ([]models.ClassView, error) {
	return []models.ClassView{}, nil
}

func (m *classServiceMock) Get(ctx context.Context, id int64) (*models.ClassView, error) {
	return m.getResp, m.getErr
}

func (m *classServiceMock) Create(ctx context.Context, payload dto.ClassPayload) (*models.ClassCreated, error) {
	m.lastPayload = payload
	return m.createResp, m.createErr
}

func (m *classServiceMock) Update(ctx context.Context, id int64, payload dto.ClassPayload) (*models.ClassView, error) {
	m.updatedID = id
	m.lastPayload = payload
	return m.getResp, m.getErr
}

func (m *classServiceMock) Delete(ctx context.Context, id int64) error {
	m.deletedID = id
	return nil
}

type fixtureServiceMock struct {
	page       *models.FixturePage
	lastQuery  models.PageQuery
	all        []*models.Fixture
	export     *service.ExportFile
	exportErr  error
	lastFormat string
}

func (m *fixtureServiceMock) List(ctx context.Context, query models.PageQuery) (*models.FixturePage, error) {
	m.lastQuery = query
	return m.page, nil
}

func (m *fixtureServiceMock) All(ctx context.Context) ([]*models.Fixture, error) {
	return m.all, nil
}

func (m *fixtureServiceMock) Get(ctx context.Context, id int64) (*models.Fixture, error) {
	return &models.Fixture{ID: id}, nil
}

func (m *fixtureServiceMock) Create(ctx context.Context, req models.CreateFixtureRequest) (*models.Fixture, error) {
	return &models.Fixture{ID: 1}, nil
}

func (m *fixtureServiceMock) Update(ctx context.Context, id int64, req models.UpdateFixtureRequest) (*models.Fixture, error) {
	return &models.Fixture{ID: id}, nil
}

func (m *fixtureServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}

func (m *fixtureServiceMock) Export(ctx context.Context, format string) (*service.ExportFile, error) {
	m.lastFormat = format
	return m.export, m.exportErr
}

type portalServiceMock struct {
	me          *models.Teacher
	meErr       error
	todos       *models.TodoList
	todosErr    error
	lastUserID  int64
	lastClassID int64
	lastYear    *int
	lastMonth   *int
	todosCalled bool
}

func (m *portalServiceMock) Me(ctx context.Context, userID int64) (*models.Teacher, error) {
	m.lastUserID = userID
	return m.me, m.meErr
}

func (m *portalServiceMock) Classes(ctx context.Context, userID int64) ([]models.ClassView, error) {
	m.lastUserID = userID
	return []models.ClassView{}, nil
}

func (m *portalServiceMock) ClassTodos(ctx context.Context, userID, classID int64, year, month *int) (*models.TodoList, error) {
	m.todosCalled = true
	m.lastUserID = userID
	m.lastClassID = classID
	m.lastYear = year
	m.lastMonth = month
	return m.todos, m.todosErr
}

func (m *portalServiceMock) ClassStudents(ctx context.Context, userID, classID int64) (*models.Roster, error) {
	m.lastUserID = userID
	m.lastClassID = classID
	return &models.Roster{}, nil
}

type reportServiceMock struct {
	dispatchResp *dto.DispatchReportResponse
	lastRequest  dto.DispatchReportRequest
}

func (m *reportServiceMock) Dispatch(ctx context.Context, req dto.DispatchReportRequest) (*dto.DispatchReportResponse, error) {
	m.lastRequest = req
	return m.dispatchResp, nil
}

func (m *reportServiceMock) ListByStudent(ctx context.Context, studentID int64) (*models.ReportList, error) {
	return &models.ReportList{}, nil
}

type studentServiceMock struct{}

func (studentServiceMock) List(ctx context.Context) (*models.StudentList, error) {
	return &models.StudentList{}, nil
}

func (studentServiceMock) Get(ctx context.Context, id int64) (*models.Student, error) {
	return &models.Student{ID: id}, nil
}

func (studentServiceMock) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	return &models.Student{ID: 1}, nil
}

func (studentServiceMock) Update(ctx context.Context, id int64, req models.UpdateStudentRequest) (*models.Student, error) {
	return &models.Student{ID: id}, nil
}

func (studentServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}

type teacherServiceMock struct{}

func (teacherServiceMock) List(ctx context.Context) (*models.TeacherList, error) {
	return &models.TeacherList{}, nil
}

func (teacherServiceMock) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	return &models.Teacher{ID: id}, nil
}

func (teacherServiceMock) Create(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	return &models.Teacher{ID: 1}, nil
}

func (teacherServiceMock) Update(ctx context.Context, id int64, req models.UpdateTeacherRequest) (*models.Teacher, error) {
	return &models.Teacher{ID: id}, nil
}

func (teacherServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}
