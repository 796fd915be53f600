package models

import "time"

// Status is the review state of an application.
//
// The documented progression is PENDENTE -> {EM_ANALISE, APROVADO, REJEITADO}
// and EM_ANALISE -> {APROVADO, REJEITADO}, but the portal accepts any valid
// status as the next one; only enum validity is enforced.
type Status string

const (
	StatusPendente  Status = "PENDENTE"
	StatusEmAnalise Status = "EM_ANALISE"
	StatusAprovado  Status = "APROVADO"
	StatusRejeitado Status = "REJEITADO"
)

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPendente, StatusEmAnalise, StatusAprovado, StatusRejeitado:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Application is a student's submission to a job offer. At most one exists
// per (student, job offer) pair; DataInscricao is stamped at creation and
// never changes.
type Application struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"studentId"`
	StudentNome   string    `json:"studentName,omitempty"`
	JobOfferID    int64     `json:"jobOfferId"`
	JobOfferTitle string    `json:"jobOfferTitle,omitempty"`
	DataInscricao time.Time `json:"dataInscricao"`
	Status        Status    `json:"status"`
}
