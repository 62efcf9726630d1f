package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"pa-onboarding-backend/internal/authz"
	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
	"pa-onboarding-backend/internal/repository"
)

type actionService struct {
	requestRepo repository.RequestRepository
	docSvc      DocumentService
	emailSvc    EmailService
}

func NewActionService(
	requestRepo repository.RequestRepository,
	docSvc DocumentService,
	emailSvc EmailService,
) ActionService {
	return &actionService{
		requestRepo: requestRepo,
		docSvc:      docSvc,
		emailSvc:    emailSvc,
	}
}

// ExecuteAction drives one bulk action through its pipeline:
// authorize -> validate payload -> fetch and validate each request ->
// check the batch shares one destination -> sign documents -> send the
// email -> commit the SUBMITTED transitions. A failure at any step is
// terminal for the invocation; nothing is retried.
func (s *actionService) ExecuteAction(ctx context.Context, identity domain.Identity, payload domain.ActionPayload) error {
	if payload.Type != domain.ActionTypeSendRegistrationEmail {
		return domain.ErrValidation(fmt.Sprintf("unknown action type %q", payload.Type))
	}

	// The bulk action crosses request-type boundaries, so it requires the
	// cross-owner update grant on both resources. Per-request ownership is
	// still enforced below.
	for _, resource := range []authz.Resource{
		authz.ResourceOrganizationRegistrationRequest,
		authz.ResourceUserDelegationRequest,
	} {
		if !authz.Can(identity.Role, resource, authz.VerbUpdate, authz.PossessionAny).Granted {
			return domain.ErrForbidden("role is not allowed to submit onboarding requests")
		}
	}

	if len(payload.IDs) == 0 {
		return domain.ErrValidation("no request ids provided")
	}

	// A repeated id collapses to its first occurrence: the request must be
	// signed, attached and committed exactly once.
	ids := dedupeIDs(payload.IDs)

	requests, err := s.fetchAndValidate(ctx, identity, ids)
	if err != nil {
		return err
	}

	// All requests of one submission must target the same certified mailbox.
	destination := requests[0].OrganizationPec
	for _, req := range requests[1:] {
		if req.OrganizationPec != destination {
			return domain.ErrConflict("requests should be sent to different email addresses")
		}
	}

	attachments, err := s.signDocuments(ctx, requests)
	if err != nil {
		return err
	}

	if err := s.emailSvc.SendRegistrationRequests(ctx, destination, requests[0].OrganizationName, attachments); err != nil {
		logger.Error("Failed to send registration email", "destination", destination, "error", err)
		return domain.ErrInternal("failed to send registration email", err)
	}

	// Sequential per-row commits: a failure here leaves earlier transitions
	// in place. The compare-and-swap in the store reports raced rows.
	for _, req := range requests {
		if err := s.requestRepo.TransitionToSubmitted(ctx, req.ID); err != nil {
			logger.Error("Failed to commit status transition", "request_id", req.ID, "error", err)
			if errors.Is(err, repository.ErrNotCreated) {
				return domain.ErrConflict(fmt.Sprintf("request %d is no longer in CREATED status", req.ID))
			}
			return domain.ErrInternal("failed to update request status", err)
		}
	}

	logger.Info("Registration requests submitted",
		"requester", identity.Email,
		"destination", destination,
		"count", len(requests))
	return nil
}

// dedupeIDs drops repeated ids, preserving first-occurrence order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// fetchAndValidate loads each request in input order, short-circuiting on
// the first failure. Later ids are never evaluated once an earlier one fails.
func (s *actionService) fetchAndValidate(ctx context.Context, identity domain.Identity, ids []int64) ([]domain.Request, error) {
	requests := make([]domain.Request, 0, len(ids))
	for _, id := range ids {
		req, err := s.requestRepo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNotFound(fmt.Sprintf("request %d not found", id))
		}
		if err != nil {
			logger.Error("Failed to load request", "request_id", id, "error", err)
			return nil, domain.ErrInternal("failed to load request", err)
		}

		if !req.ValidType() {
			return nil, domain.ErrValidation(fmt.Sprintf("request %d has invalid type %q", id, req.Type))
		}
		if req.Requester == nil {
			// Defensive: the owner join should always populate this.
			return nil, domain.ErrInternal(fmt.Sprintf("request %d has no requester loaded", id), nil)
		}
		if req.Requester.Email != identity.Email {
			return nil, domain.ErrForbidden(fmt.Sprintf("request %d belongs to another user", id))
		}
		if req.Status != domain.RequestStatusCreated {
			return nil, domain.ErrConflict(fmt.Sprintf("request %d has already been submitted", id))
		}

		requests = append(requests, *req)
	}
	return requests, nil
}

// signDocuments reads each request's unsigned document, signs it through
// the remote service and stores the signed copy. Any failure aborts the
// whole batch before anything is sent; signed files already on disk are
// left behind as a best-effort artifact.
func (s *actionService) signDocuments(ctx context.Context, requests []domain.Request) ([]Attachment, error) {
	attachments := make([]Attachment, 0, len(requests))
	for _, req := range requests {
		unsigned, err := s.docSvc.ReadUnsigned(ctx, req.OrganizationIpaCode, req.ID)
		if err != nil {
			logger.Error("Failed to read unsigned document", "request_id", req.ID, "error", err)
			return nil, domain.ErrInternal("failed to read unsigned document", err)
		}

		signedB64, err := s.docSvc.SignDocument(ctx, base64.StdEncoding.EncodeToString(unsigned))
		if err != nil {
			logger.Error("Failed to sign document", "request_id", req.ID, "error", err)
			return nil, domain.ErrInternal("failed to sign document", err)
		}

		signed, err := base64.StdEncoding.DecodeString(signedB64)
		if err != nil {
			logger.Error("Signer returned malformed content", "request_id", req.ID, "error", err)
			return nil, domain.ErrInternal("signer returned malformed content", err)
		}

		path, err := s.docSvc.WriteSigned(ctx, req.OrganizationIpaCode, req.ID, signed)
		if err != nil {
			logger.Error("Failed to store signed document", "request_id", req.ID, "error", err)
			return nil, domain.ErrInternal("failed to store signed document", err)
		}

		attachments = append(attachments, Attachment{
			Filename: attachmentFilename(req),
			Path:     path,
			Content:  signed,
		})
	}
	return attachments, nil
}

func attachmentFilename(req domain.Request) string {
	kind := "registration"
	if req.Type == domain.RequestTypeUserDelegation {
		kind = "delegation"
	}
	return fmt.Sprintf("%s-%s-%d.pdf", req.OrganizationIpaCode, kind, req.ID)
}
