package domain

type ContactEmailType string

const (
	ContactEmailTypePec   ContactEmailType = "PEC"
	ContactEmailTypePlain ContactEmailType = "EMAIL"
)

// ContactEmail is one labelled mailbox of a public administration as listed
// in the IPA registry. Registration correspondence may only target entries
// of type PEC.
type ContactEmail struct {
	Label   string           `json:"label"`
	Type    ContactEmailType `json:"type"`
	Address string           `json:"address"`
}

// PublicAdministration mirrors one record of the national IPA registry.
// Rows are fed by an external ingestion pipeline; this backend only reads them.
type PublicAdministration struct {
	IpaCode    string         `json:"ipa_code"`
	Name       string         `json:"name"`
	FiscalCode string         `json:"fiscal_code"`
	Emails     []ContactEmail `json:"emails"`
}

// PecByLabel resolves a caller-selected label to a certified mailbox.
// A label denoting a non-PEC entry resolves to nothing.
func (a *PublicAdministration) PecByLabel(label string) (ContactEmail, bool) {
	for _, e := range a.Emails {
		if e.Label == label && e.Type == ContactEmailTypePec {
			return e, true
		}
	}
	return ContactEmail{}, false
}
