package service_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/service"
)

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}
func (m *MockRequestRepo) ListByRequester(ctx context.Context, email string, status domain.RequestStatus) ([]domain.Request, error) {
	args := m.Called(ctx, email, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}
func (m *MockRequestRepo) ExistsForIpaCode(ctx context.Context, ipaCode string, reqType domain.RequestType, status domain.RequestStatus) (bool, error) {
	args := m.Called(ctx, ipaCode, reqType, status)
	return args.Bool(0), args.Error(1)
}
func (m *MockRequestRepo) CreatePair(ctx context.Context, registration, delegation *domain.Request) error {
	args := m.Called(ctx, registration, delegation)
	return args.Error(0)
}
func (m *MockRequestRepo) TransitionToSubmitted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRequestRepo) ListStaleCreated(ctx context.Context, olderThan time.Time) ([]domain.Request, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSessionRepo
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAdministrationRepo
type MockAdministrationRepo struct {
	mock.Mock
}

func (m *MockAdministrationRepo) GetByIpaCode(ctx context.Context, ipaCode string) (*domain.PublicAdministration, error) {
	args := m.Called(ctx, ipaCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicAdministration), args.Error(1)
}
func (m *MockAdministrationRepo) Search(ctx context.Context, name string) ([]domain.PublicAdministration, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PublicAdministration), args.Error(1)
}

// MockDocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GenerateRegistrationDocuments(ctx context.Context, requests []domain.Request) error {
	args := m.Called(ctx, requests)
	return args.Error(0)
}
func (m *MockDocumentService) SignDocument(ctx context.Context, base64Content string) (string, error) {
	args := m.Called(ctx, base64Content)
	return args.String(0), args.Error(1)
}
func (m *MockDocumentService) ReadUnsigned(ctx context.Context, ipaCode string, id int64) ([]byte, error) {
	args := m.Called(ctx, ipaCode, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockDocumentService) WriteSigned(ctx context.Context, ipaCode string, id int64, data []byte) (string, error) {
	args := m.Called(ctx, ipaCode, id, data)
	return args.String(0), args.Error(1)
}
func (m *MockDocumentService) OpenDocument(ctx context.Context, ipaCode, filename string) (io.ReadCloser, error) {
	args := m.Called(ctx, ipaCode, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRegistrationRequests(ctx context.Context, toPec, orgName string, attachments []service.Attachment) error {
	args := m.Called(ctx, toPec, orgName, attachments)
	return args.Error(0)
}
func (m *MockEmailService) SendRequestReminder(ctx context.Context, toEmail, name string, pendingCount int) error {
	args := m.Called(ctx, toEmail, name, pendingCount)
	return args.Error(0)
}
