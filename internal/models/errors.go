package models

import "errors"

// Sentinel errors shared across services and handlers. Handlers translate
// them with errors.Is into the HTTP statuses of the public contract.
var (
	// ErrNotFound reports an absent entity of any kind.
	ErrNotFound = errors.New("not found")

	// ErrForbidden reports a role mismatch inside business logic, e.g. a
	// non-company caller creating a job offer.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict reports a uniqueness violation: duplicate application,
	// taken email, cnpj, cpf or area name.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials reports a failed login. The HTTP body stays
	// generic so it never reveals whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProfileNotFound reports a base identity whose role-specific record
	// is missing. A data-integrity fault, surfaced as an auth failure.
	ErrProfileNotFound = errors.New("role profile not found")

	// ErrInactiveOffer rejects applications targeting a closed offer.
	ErrInactiveOffer = errors.New("cannot apply to an inactive job offer")

	// ErrInvalidStatus reports an unknown application status value.
	ErrInvalidStatus = errors.New("invalid application status")

	// ErrInvalidModalidade reports an unknown job offer modality value.
	ErrInvalidModalidade = errors.New("invalid job offer modality")
)
