// Package authz holds the static capability matrix driving every
// authorization decision. The matrix is built once at init and never
// mutated; absence of a grant is a negative result, not an error.
package authz

import (
	"pa-onboarding-backend/internal/domain"
)

type Resource string

const (
	ResourceOrganizationRegistrationRequest Resource = "organization-registration-request"
	ResourceUserDelegationRequest           Resource = "user-delegation-request"
	ResourceOrganization                    Resource = "organization"
	ResourceDocument                        Resource = "document"
)

type Verb string

const (
	VerbCreate Verb = "create"
	VerbRead   Verb = "read"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Possession qualifies a grant: OWN restricts the verb to resources owned by
// the caller, ANY crosses ownership boundaries.
type Possession string

const (
	PossessionOwn Possession = "own"
	PossessionAny Possession = "any"
)

// Grant is the outcome of a policy lookup. Attributes may carry "!attr"
// deny markers for fields excluded from an otherwise-allowed projection.
type Grant struct {
	Granted    bool
	Attributes []string
}

type action struct {
	verb       Verb
	possession Possession
}

var matrix = map[domain.Role]map[Resource]map[action][]string{
	domain.RoleOrgDelegate: {
		ResourceOrganizationRegistrationRequest: {
			{VerbCreate, PossessionOwn}: {"*"},
			{VerbRead, PossessionOwn}:   {"*"},
			// The bulk submission action requires cross-owner update; the
			// per-row ownership check downstream still restricts delegates
			// to their own requests.
			{VerbUpdate, PossessionAny}: {"*", "!status"},
			{VerbDelete, PossessionOwn}: {"*"},
		},
		ResourceUserDelegationRequest: {
			{VerbCreate, PossessionOwn}: {"*"},
			{VerbRead, PossessionOwn}:   {"*"},
			{VerbUpdate, PossessionAny}: {"*", "!status"},
			{VerbDelete, PossessionOwn}: {"*"},
		},
		ResourceOrganization: {
			{VerbRead, PossessionOwn}: {"*"},
		},
		ResourceDocument: {
			{VerbRead, PossessionOwn}: {"*"},
		},
	},
	domain.RoleOrgManager: {
		ResourceOrganizationRegistrationRequest: {
			{VerbRead, PossessionOwn}: {"*"},
		},
		ResourceUserDelegationRequest: {
			{VerbRead, PossessionOwn}: {"*"},
		},
		ResourceOrganization: {
			{VerbRead, PossessionAny}: {"*"},
		},
		ResourceDocument: {
			{VerbRead, PossessionOwn}: {"*"},
		},
	},
	domain.RoleDeveloper: {
		ResourceOrganizationRegistrationRequest: {
			{VerbRead, PossessionOwn}: {"*"},
		},
		ResourceUserDelegationRequest: {
			{VerbRead, PossessionOwn}: {"*"},
		},
	},
	domain.RoleAdmin: {
		ResourceOrganizationRegistrationRequest: allVerbsAny(),
		ResourceUserDelegationRequest:           allVerbsAny(),
		ResourceOrganization:                    allVerbsAny(),
		ResourceDocument:                        allVerbsAny(),
	},
}

func allVerbsAny() map[action][]string {
	return map[action][]string{
		{VerbCreate, PossessionAny}: {"*"},
		{VerbRead, PossessionAny}:   {"*"},
		{VerbUpdate, PossessionAny}: {"*"},
		{VerbDelete, PossessionAny}: {"*"},
	}
}

// Can resolves one (role, resource, verb, possession) lookup. Deterministic
// and total: unknown combinations yield an ungranted result.
func Can(role domain.Role, resource Resource, verb Verb, possession Possession) Grant {
	byResource, ok := matrix[role]
	if !ok {
		return Grant{}
	}
	byAction, ok := byResource[resource]
	if !ok {
		return Grant{}
	}
	attrs, ok := byAction[action{verb, possession}]
	if !ok {
		return Grant{}
	}
	out := make([]string, len(attrs))
	copy(out, attrs)
	return Grant{Granted: true, Attributes: out}
}
