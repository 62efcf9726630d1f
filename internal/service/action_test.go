package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/repository"
	"pa-onboarding-backend/internal/service"
)

const (
	delegateEmail = "delegate@example.com"
	otherEmail    = "someone-else@example.com"
	orgPec        = "protocollo@pec.comune.example.it"
)

func delegateIdentity() domain.Identity {
	return domain.Identity{Email: delegateEmail, Role: domain.RoleOrgDelegate}
}

func createdRequest(id int64, owner string, pec string) *domain.Request {
	return &domain.Request{
		ID:                  id,
		Type:                domain.RequestTypeOrganizationRegistration,
		Status:              domain.RequestStatusCreated,
		RequesterEmail:      owner,
		Requester:           &domain.User{Email: owner, FirstName: "Mario", FamilyName: "Rossi"},
		OrganizationIpaCode: "c_a123",
		OrganizationName:    "Comune di Esempio",
		OrganizationPec:     pec,
	}
}

func sendEmailPayload(ids ...int64) domain.ActionPayload {
	return domain.ActionPayload{Type: domain.ActionTypeSendRegistrationEmail, IDs: ids}
}

func TestExecuteAction_ForbiddenRoles(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleOrgManager, domain.RoleDeveloper} {
		t.Run(string(role), func(t *testing.T) {
			requestRepo := new(MockRequestRepo)
			svc := service.NewActionService(requestRepo, new(MockDocumentService), new(MockEmailService))

			err := svc.ExecuteAction(context.Background(), domain.Identity{Email: delegateEmail, Role: role}, sendEmailPayload(1))

			require.Error(t, err)
			assert.Equal(t, domain.ErrorKindForbidden, domain.KindOf(err))
			// Storage must not be touched on an authorization failure.
			requestRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestExecuteAction_EmptyPayload(t *testing.T) {
	requestRepo := new(MockRequestRepo)
	svc := service.NewActionService(requestRepo, new(MockDocumentService), new(MockEmailService))

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload())

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
	requestRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestExecuteAction_UnknownActionType(t *testing.T) {
	svc := service.NewActionService(new(MockRequestRepo), new(MockDocumentService), new(MockEmailService))

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), domain.ActionPayload{Type: "DELETE_EVERYTHING", IDs: []int64{1}})

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
}

func TestExecuteAction_RequestNotFound(t *testing.T) {
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, repository.ErrNotFound).Once()
	svc := service.NewActionService(requestRepo, new(MockDocumentService), new(MockEmailService))

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(42))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindNotFound, domain.KindOf(err))
	requestRepo.AssertExpectations(t)
}

func TestExecuteAction_OwnershipEnforced(t *testing.T) {
	// Even with the ANY-possession role grant, a request owned by another
	// user is off limits.
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, otherEmail, orgPec), nil).Once()
	svc := service.NewActionService(requestRepo, new(MockDocumentService), new(MockEmailService))

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindForbidden, domain.KindOf(err))
	requestRepo.AssertNotCalled(t, "TransitionToSubmitted", mock.Anything, mock.Anything)
}

func TestExecuteAction_AlreadySubmitted(t *testing.T) {
	submitted := createdRequest(1, delegateEmail, orgPec)
	submitted.Status = domain.RequestStatusSubmitted

	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(submitted, nil).Once()
	svc := service.NewActionService(requestRepo, new(MockDocumentService), new(MockEmailService))

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindConflict, domain.KindOf(err))
	requestRepo.AssertNotCalled(t, "TransitionToSubmitted", mock.Anything, mock.Anything)
}

func TestExecuteAction_MissingRequesterAssociation(t *testing.T) {
	broken := createdRequest(1, delegateEmail, orgPec)
	broken.Requester = nil

	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(broken, nil).Once()
	svc := service.NewActionService(requestRepo, new(MockDocumentService), new(MockEmailService))

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindInternal, domain.KindOf(err))
}

func TestExecuteAction_MixedDestinations(t *testing.T) {
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, delegateEmail, orgPec), nil).Once()
	requestRepo.On("GetByID", mock.Anything, int64(2)).Return(createdRequest(2, delegateEmail, "other@pec.example.it"), nil).Once()
	docSvc := new(MockDocumentService)
	emailSvc := new(MockEmailService)
	svc := service.NewActionService(requestRepo, docSvc, emailSvc)

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1, 2))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindConflict, domain.KindOf(err))
	docSvc.AssertNotCalled(t, "SignDocument", mock.Anything, mock.Anything)
	emailSvc.AssertNotCalled(t, "SendRegistrationRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	requestRepo.AssertNotCalled(t, "TransitionToSubmitted", mock.Anything, mock.Anything)
}

func TestExecuteAction_SigningFailureAbortsBatch(t *testing.T) {
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, delegateEmail, orgPec), nil).Once()
	requestRepo.On("GetByID", mock.Anything, int64(2)).Return(createdRequest(2, delegateEmail, orgPec), nil).Once()

	docSvc := new(MockDocumentService)
	docSvc.On("ReadUnsigned", mock.Anything, "c_a123", int64(1)).Return([]byte("doc-1"), nil).Once()
	docSvc.On("SignDocument", mock.Anything, mock.Anything).Return("", errors.New("signer unavailable")).Once()

	emailSvc := new(MockEmailService)
	svc := service.NewActionService(requestRepo, docSvc, emailSvc)

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1, 2))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindInternal, domain.KindOf(err))
	// No email, no commits: the attempt is rolled back wholesale.
	emailSvc.AssertNotCalled(t, "SendRegistrationRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	requestRepo.AssertNotCalled(t, "TransitionToSubmitted", mock.Anything, mock.Anything)
	docSvc.AssertExpectations(t)
}

func TestExecuteAction_EmailFailureAbortsCommit(t *testing.T) {
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, delegateEmail, orgPec), nil).Once()

	docSvc := new(MockDocumentService)
	docSvc.On("ReadUnsigned", mock.Anything, "c_a123", int64(1)).Return([]byte("doc-1"), nil).Once()
	docSvc.On("SignDocument", mock.Anything, mock.Anything).Return(base64.StdEncoding.EncodeToString([]byte("signed-1")), nil).Once()
	docSvc.On("WriteSigned", mock.Anything, "c_a123", int64(1), []byte("signed-1")).Return("/docs/signed/c_a123/1.pdf", nil).Once()

	emailSvc := new(MockEmailService)
	emailSvc.On("SendRegistrationRequests", mock.Anything, orgPec, "Comune di Esempio", mock.Anything).
		Return(errors.New("smtp timeout")).Once()

	svc := service.NewActionService(requestRepo, docSvc, emailSvc)

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindInternal, domain.KindOf(err))
	requestRepo.AssertNotCalled(t, "TransitionToSubmitted", mock.Anything, mock.Anything)
}

func TestExecuteAction_HappyPath(t *testing.T) {
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, delegateEmail, orgPec), nil).Once()
	requestRepo.On("GetByID", mock.Anything, int64(2)).Return(createdRequest(2, delegateEmail, orgPec), nil).Once()
	requestRepo.On("TransitionToSubmitted", mock.Anything, int64(1)).Return(nil).Once()
	requestRepo.On("TransitionToSubmitted", mock.Anything, int64(2)).Return(nil).Once()

	docSvc := new(MockDocumentService)
	for _, id := range []int64{1, 2} {
		docSvc.On("ReadUnsigned", mock.Anything, "c_a123", id).Return([]byte("doc"), nil).Once()
		docSvc.On("WriteSigned", mock.Anything, "c_a123", id, []byte("signed")).Return("/docs/signed", nil).Once()
	}
	docSvc.On("SignDocument", mock.Anything, base64.StdEncoding.EncodeToString([]byte("doc"))).
		Return(base64.StdEncoding.EncodeToString([]byte("signed")), nil).Twice()

	emailSvc := new(MockEmailService)
	emailSvc.On("SendRegistrationRequests", mock.Anything, orgPec, "Comune di Esempio",
		mock.MatchedBy(func(attachments []service.Attachment) bool {
			return len(attachments) == 2
		})).Return(nil).Once()

	svc := service.NewActionService(requestRepo, docSvc, emailSvc)

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1, 2))

	require.NoError(t, err)
	requestRepo.AssertExpectations(t)
	docSvc.AssertExpectations(t)
	emailSvc.AssertExpectations(t)
}

func TestExecuteAction_DuplicateIDsCollapse(t *testing.T) {
	// A repeated id must not double-sign, double-attach or double-commit;
	// the second commit attempt would trip the status guard and report a
	// conflict for a batch that actually succeeded.
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, delegateEmail, orgPec), nil).Once()
	requestRepo.On("TransitionToSubmitted", mock.Anything, int64(1)).Return(nil).Once()

	docSvc := new(MockDocumentService)
	docSvc.On("ReadUnsigned", mock.Anything, "c_a123", int64(1)).Return([]byte("doc"), nil).Once()
	docSvc.On("SignDocument", mock.Anything, mock.Anything).Return(base64.StdEncoding.EncodeToString([]byte("signed")), nil).Once()
	docSvc.On("WriteSigned", mock.Anything, "c_a123", int64(1), []byte("signed")).Return("/docs/signed", nil).Once()

	emailSvc := new(MockEmailService)
	emailSvc.On("SendRegistrationRequests", mock.Anything, orgPec, "Comune di Esempio",
		mock.MatchedBy(func(attachments []service.Attachment) bool {
			return len(attachments) == 1
		})).Return(nil).Once()

	svc := service.NewActionService(requestRepo, docSvc, emailSvc)

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1, 1))

	require.NoError(t, err)
	requestRepo.AssertExpectations(t)
	docSvc.AssertExpectations(t)
	emailSvc.AssertExpectations(t)
}

func TestExecuteAction_RacedCommitReportsConflict(t *testing.T) {
	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, delegateEmail, orgPec), nil).Once()
	requestRepo.On("TransitionToSubmitted", mock.Anything, int64(1)).Return(repository.ErrNotCreated).Once()

	docSvc := new(MockDocumentService)
	docSvc.On("ReadUnsigned", mock.Anything, "c_a123", int64(1)).Return([]byte("doc"), nil).Once()
	docSvc.On("SignDocument", mock.Anything, mock.Anything).Return(base64.StdEncoding.EncodeToString([]byte("signed")), nil).Once()
	docSvc.On("WriteSigned", mock.Anything, "c_a123", int64(1), []byte("signed")).Return("/docs/signed", nil).Once()

	emailSvc := new(MockEmailService)
	emailSvc.On("SendRegistrationRequests", mock.Anything, orgPec, "Comune di Esempio", mock.Anything).Return(nil).Once()

	svc := service.NewActionService(requestRepo, docSvc, emailSvc)

	err := svc.ExecuteAction(context.Background(), delegateIdentity(), sendEmailPayload(1))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindConflict, domain.KindOf(err))
}

func TestExecuteAction_AdminCanSubmit(t *testing.T) {
	// Admin carries the cross-owner grant but still owns the requests in
	// this scenario, so the per-row check passes.
	admin := domain.Identity{Email: delegateEmail, Role: domain.RoleAdmin}

	requestRepo := new(MockRequestRepo)
	requestRepo.On("GetByID", mock.Anything, int64(1)).Return(createdRequest(1, delegateEmail, orgPec), nil).Once()
	requestRepo.On("TransitionToSubmitted", mock.Anything, int64(1)).Return(nil).Once()

	docSvc := new(MockDocumentService)
	docSvc.On("ReadUnsigned", mock.Anything, "c_a123", int64(1)).Return([]byte("doc"), nil).Once()
	docSvc.On("SignDocument", mock.Anything, mock.Anything).Return(base64.StdEncoding.EncodeToString([]byte("signed")), nil).Once()
	docSvc.On("WriteSigned", mock.Anything, "c_a123", int64(1), []byte("signed")).Return("/docs/signed", nil).Once()

	emailSvc := new(MockEmailService)
	emailSvc.On("SendRegistrationRequests", mock.Anything, orgPec, "Comune di Esempio", mock.Anything).Return(nil).Once()

	svc := service.NewActionService(requestRepo, docSvc, emailSvc)

	require.NoError(t, svc.ExecuteAction(context.Background(), admin, sendEmailPayload(1)))
	requestRepo.AssertExpectations(t)
}
