package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"pa-onboarding-backend/internal/config"
	"pa-onboarding-backend/internal/domain"
	"pa-onboarding-backend/internal/logger"
)

const registrationContractTemplate = `REGISTRATION REQUEST

The public administration {{.OrganizationName}} (IPA code {{.OrganizationIpaCode}},
fiscal code {{.OrganizationFiscalCode}}) requests to join the platform with
{{.OrganizationScope}} scope.

Legal representative: {{.LegalRepFirstName}} {{.LegalRepFamilyName}}
Fiscal code: {{.LegalRepFiscalCode}}
Phone: {{.LegalRepPhoneNumber}}

Destination PEC: {{.OrganizationPec}}
`

const delegationMandateTemplate = `USER DELEGATION

{{.Requester.FirstName}} {{.Requester.FamilyName}} (fiscal code
{{.Requester.FiscalCode}}, email {{.RequesterEmail}}) requests delegation to
operate on behalf of {{.OrganizationName}} (IPA code {{.OrganizationIpaCode}}).
`

type documentService struct {
	rootDir      string
	generatorURL string
	signerURL    string
	signerToken  string
	client       *http.Client
	contractTmpl *template.Template
	mandateTmpl  *template.Template
}

func NewDocumentService(cfg config.DocumentsConfig) DocumentService {
	return &documentService{
		rootDir:      cfg.RootDir,
		generatorURL: cfg.GeneratorURL,
		signerURL:    cfg.SignerURL,
		signerToken:  cfg.SignerToken,
		client:       &http.Client{Timeout: 30 * time.Second},
		contractTmpl: template.Must(template.New("contract").Parse(registrationContractTemplate)),
		mandateTmpl:  template.Must(template.New("mandate").Parse(delegationMandateTemplate)),
	}
}

func (s *documentService) unsignedPath(ipaCode string, id int64) string {
	return filepath.Join(s.rootDir, "unsigned", ipaCode, fmt.Sprintf("%d.pdf", id))
}

func (s *documentService) signedPath(ipaCode string, id int64) string {
	return filepath.Join(s.rootDir, "signed", ipaCode, fmt.Sprintf("%d.pdf", id))
}

func (s *documentService) GenerateRegistrationDocuments(ctx context.Context, requests []domain.Request) error {
	for i := range requests {
		req := &requests[i]
		tmpl := s.contractTmpl
		if req.Type == domain.RequestTypeUserDelegation {
			tmpl = s.mandateTmpl
		}

		var content bytes.Buffer
		if err := tmpl.Execute(&content, req); err != nil {
			return fmt.Errorf("render document for request %d: %w", req.ID, err)
		}

		data, err := s.convert(ctx, content.Bytes())
		if err != nil {
			return fmt.Errorf("convert document for request %d: %w", req.ID, err)
		}

		path := s.unsignedPath(req.OrganizationIpaCode, req.ID)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create unsigned document dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write unsigned document %s: %w", path, err)
		}
	}
	return nil
}

// convert turns rendered contract text into the final document format via
// the external converter. Without a configured converter the rendered
// content is stored as-is, which keeps local development self-contained.
func (s *documentService) convert(ctx context.Context, content []byte) ([]byte, error) {
	if s.generatorURL == "" {
		return content, nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.generatorURL, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "text/plain; charset=utf-8")

	logger.ExternalServiceCall("document-generator", "convert")
	resp, err := s.client.Do(httpReq)
	logger.ExternalServiceResult("document-generator", "convert", err)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document generator returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type signRequest struct {
	Content string `json:"content"`
}

type signResponse struct {
	SignedContent string `json:"signed_content"`
}

func (s *documentService) SignDocument(ctx context.Context, base64Content string) (string, error) {
	payload, err := json.Marshal(signRequest{Content: base64Content})
	if err != nil {
		return "", fmt.Errorf("marshal sign request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.signerURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build sign request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.signerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.signerToken)
	}

	logger.ExternalServiceCall("document-signer", "sign")
	resp, err := s.client.Do(httpReq)
	logger.ExternalServiceResult("document-signer", "sign", err)
	if err != nil {
		return "", fmt.Errorf("call document signer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("document signer returned status %d", resp.StatusCode)
	}

	var signed signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("decode sign response: %w", err)
	}
	if signed.SignedContent == "" {
		return "", fmt.Errorf("document signer returned empty content")
	}
	return signed.SignedContent, nil
}

func (s *documentService) ReadUnsigned(ctx context.Context, ipaCode string, id int64) ([]byte, error) {
	data, err := os.ReadFile(s.unsignedPath(ipaCode, id))
	if err != nil {
		return nil, fmt.Errorf("read unsigned document for request %d: %w", id, err)
	}
	return data, nil
}

func (s *documentService) WriteSigned(ctx context.Context, ipaCode string, id int64, data []byte) (string, error) {
	path := s.signedPath(ipaCode, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create signed document dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write signed document %s: %w", path, err)
	}
	return path, nil
}

func (s *documentService) OpenDocument(ctx context.Context, ipaCode, filename string) (io.ReadCloser, error) {
	// Both path segments come from the URL; filepath.Base strips traversal
	// components, and a bare dot component never names a stored document.
	name := filepath.Base(filename)
	code := filepath.Base(ipaCode)
	if name == "." || name == ".." || code == "." || code == ".." {
		return nil, os.ErrNotExist
	}
	for _, dir := range []string{"signed", "unsigned"} {
		f, err := os.Open(filepath.Join(s.rootDir, dir, code, name))
		if err == nil {
			return f, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open document %s: %w", name, err)
		}
	}
	return nil, os.ErrNotExist
}
