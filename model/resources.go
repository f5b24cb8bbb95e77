package model

import "time"

// Institution is a credential-issuing organisation registered on the platform.
type Institution struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Email       string    `json:"email"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"createdAt"`
	ApprovedAt  time.Time `json:"approvedAt,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
}

// Institution lifecycle statuses.
const (
	InstitutionPending   = "pending"
	InstitutionApproved  = "approved"
	InstitutionSuspended = "suspended"
	InstitutionRejected  = "rejected"
)

// Institution categories.
const (
	InstitutionTypeUniversity   = "university"
	InstitutionTypeCollege      = "college"
	InstitutionTypeProfessional = "professional_body"
)

// User is a platform account of any role.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin,omitempty"`
}

// Platform roles.
const (
	RoleIndividual       = "individual"
	RoleEmployer         = "employer"
	RoleInstitutionAdmin = "institution_admin"
	RoleSuperAdmin       = "super_admin"
)

// VerificationRequest is one credential-verification job.
type VerificationRequest struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	DocumentName  string    `json:"documentName"`
	DocumentType  string    `json:"documentType"`
	InstitutionID string    `json:"institutionId"`
	Institution   string    `json:"institution"`
	RequesterID   string    `json:"requesterId"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submittedAt"`
	CompletedAt   time.Time `json:"completedAt,omitempty"`
}

// Document types accepted for verification.
const (
	DocumentTypeDegree      = "degree"
	DocumentTypeTranscript  = "transcript"
	DocumentTypeCertificate = "certificate"
)

// Verification statuses.
const (
	VerificationPending    = "pending"
	VerificationInProgress = "in_progress"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

// AuditLog is one recorded platform action.
type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	ActorRole string    `json:"actorRole"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Plan is a pricing tier offered to employers and institutions.
type Plan struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PriceMonthly  float64 `json:"priceMonthly"`
	Currency      string  `json:"currency"`
	Verifications int     `json:"verifications"`
	Audience      string  `json:"audience"`
}
