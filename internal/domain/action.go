package domain

type ActionType string

const (
	ActionTypeSendRegistrationEmail ActionType = "SEND_REGISTRATION_REQUEST_EMAIL_TO_ORG"
)

// ActionPayload is a bulk operation over a set of requests owned by the
// caller. IDs are processed in the order supplied; duplicates are permitted
// but redundant.
type ActionPayload struct {
	Type ActionType `json:"type"`
	IDs  []int64    `json:"ids"`
}
