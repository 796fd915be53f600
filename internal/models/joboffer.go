package models

import "time"

// Modalidade is the work arrangement of a job offer.
type Modalidade string

const (
	ModalidadePresencial Modalidade = "PRESENCIAL"
	ModalidadeRemoto     Modalidade = "REMOTO"
	ModalidadeHibrido    Modalidade = "HIBRIDO"
)

// ParseModalidade converts a wire value into a Modalidade.
func ParseModalidade(s string) (Modalidade, error) {
	switch Modalidade(s) {
	case ModalidadePresencial, ModalidadeRemoto, ModalidadeHibrido:
		return Modalidade(s), nil
	}
	return "", ErrInvalidModalidade
}

// CompanySummary is the public slice of a company embedded in offer listings.
type CompanySummary struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	CNPJ     string `json:"cnpj"`
	Endereco string `json:"endereco"`
	Telefone string `json:"telefone"`
	Email    string `json:"email"`
}

// JobOffer is an internship opening owned by a company.
//
// Invariant: DataEncerramento is set if and only if Ativa is false.
type JobOffer struct {
	ID               int64          `json:"id"`
	Titulo           string         `json:"titulo"`
	Descricao        string         `json:"descricao"`
	Localizacao      string         `json:"localizacao"`
	Modalidade       Modalidade     `json:"modalidade"`
	CargaHoraria     int            `json:"cargaHoraria"`
	Requisitos       string         `json:"requisitos"`
	Ativa            bool           `json:"ativa"`
	DataCriacao      time.Time      `json:"dataCriacao"`
	DataAtualizacao  *time.Time     `json:"dataAtualizacao,omitempty"`
	DataEncerramento *time.Time     `json:"dataEncerramento,omitempty"`
	Company          CompanySummary `json:"company"`
	Area             Area           `json:"area"`
}

// AreaCount is one row of the offers-per-area statistic.
type AreaCount struct {
	Area  string `json:"area"`
	Total int64  `json:"total"`
}

// JobOfferStats aggregates the counters exposed by the statistics endpoint.
type JobOfferStats struct {
	Ativas     int64       `json:"ativas"`
	Encerradas int64       `json:"encerradas"`
	PorArea    []AreaCount `json:"porArea"`
}
