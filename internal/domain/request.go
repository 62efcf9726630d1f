package domain

import "time"

type RequestType string

const (
	RequestTypeOrganizationRegistration RequestType = "ORGANIZATION_REGISTRATION"
	RequestTypeUserDelegation           RequestType = "USER_DELEGATION"
)

type RequestStatus string

const (
	RequestStatusCreated   RequestStatus = "CREATED"
	RequestStatusSubmitted RequestStatus = "SUBMITTED"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
)

type OrganizationScope string

const (
	OrganizationScopeNational OrganizationScope = "NATIONAL"
	OrganizationScopeLocal    OrganizationScope = "LOCAL"
)

// Request is one row of the onboarding workflow. Organization and legal
// representative fields are snapshotted from the IPA registry and the
// caller's input at creation time; later registry changes do not touch
// existing rows.
type Request struct {
	ID             int64         `json:"id"`
	Type           RequestType   `json:"type"`
	Status         RequestStatus `json:"status"`
	RequesterEmail string        `json:"requester_email"`
	// Requester is populated by reads that join the owning user; writes
	// ignore it.
	Requester *User `json:"requester,omitempty"`

	OrganizationIpaCode    string            `json:"organization_ipa_code"`
	OrganizationFiscalCode string            `json:"organization_fiscal_code"`
	OrganizationName       string            `json:"organization_name"`
	OrganizationPec        string            `json:"organization_pec"`
	OrganizationScope      OrganizationScope `json:"organization_scope"`

	LegalRepFirstName   string `json:"legal_rep_first_name"`
	LegalRepFamilyName  string `json:"legal_rep_family_name"`
	LegalRepFiscalCode  string `json:"legal_rep_fiscal_code"`
	LegalRepPhoneNumber string `json:"legal_rep_phone_number"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ValidType reports whether the request carries one of the two workflow
// types. Rows with any other type are treated as corrupt input.
func (r *Request) ValidType() bool {
	return r.Type == RequestTypeOrganizationRegistration || r.Type == RequestTypeUserDelegation
}
