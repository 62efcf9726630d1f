package domain

// LegalRepresentative carries the caller-supplied fields describing the
// organization's legal representative.
type LegalRepresentative struct {
	FirstName   string `json:"first_name"`
	FamilyName  string `json:"family_name"`
	FiscalCode  string `json:"fiscal_code"`
	PhoneNumber string `json:"phone_number"`
}

// RegistrationParams is the validated input of an organization registration
// submission. The ipa code and pec label are resolved against the IPA
// registry before any row is created.
type RegistrationParams struct {
	IpaCode             string              `json:"ipa_code"`
	SelectedPecLabel    string              `json:"selected_pec_label"`
	Scope               OrganizationScope   `json:"scope"`
	LegalRepresentative LegalRepresentative `json:"legal_representative"`
}
