// Package models contains the domain entities of the internship portal:
// identities (admin, company, student), practice/interest areas, job offers
// and applications, plus the sentinel errors shared by the service layer.
//
// Identity is modeled as a shared User payload with a Role discriminant and
// a role-specific payload joined on the same id, instead of inheritance.
package models

import "time"

// Role discriminates the three kinds of identity the portal knows about.
type Role string

// Roles are server-assigned on registration and immutable afterwards.
const (
	RoleAdmin   Role = "ADMIN"
	RoleCompany Role = "COMPANY"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCompany || r == RoleStudent
}

// User is the identity payload shared by every role.
type User struct {
	ID              int64      `json:"id"`
	Nome            string     `json:"nome"`
	Email           string     `json:"email"` // globally unique
	SenhaHash       string     `json:"-"`
	Telefone        string     `json:"telefone"`
	Role            Role       `json:"role"`
	DataCriacao     time.Time  `json:"dataCriacao"`
	DataAtualizacao *time.Time `json:"dataAtualizacao,omitempty"`
}

// Company is the COMPANY-role payload. CNPJ is the company's unique natural key.
type Company struct {
	User
	CNPJ         string `json:"cnpj"`
	Endereco     string `json:"endereco"`
	AreasAtuacao []Area `json:"areasAtuacao"`
}

// Student is the STUDENT-role payload. CPF is the student's unique natural key.
type Student struct {
	User
	CPF            string       `json:"cpf"`
	Curso          string       `json:"curso"`
	DataNascimento *time.Time   `json:"dataNascimento,omitempty"`
	Linkedin       string       `json:"linkedin,omitempty"`
	Github         string       `json:"github,omitempty"`
	Portfolio      string       `json:"portfolio,omitempty"`
	Resumo         string       `json:"resumo,omitempty"`
	Educacao       []Education  `json:"educacao"`
	Experiencia    []Experience `json:"experiencia"`
	Habilidades    []Skill      `json:"habilidades"`
	AreasInteresse []Area       `json:"areasInteresse"`
}

// Education is one ordered entry of a student's academic history.
type Education struct {
	Nivel       string     `json:"nivel"`
	Curso       string     `json:"curso"`
	Instituicao string     `json:"instituicao"`
	DataInicio  *time.Time `json:"dataInicio,omitempty"`
	DataFim     *time.Time `json:"dataFim,omitempty"`
	EmAndamento bool       `json:"emAndamento"`
	Descricao   string     `json:"descricao,omitempty"`
}

// Experience is one ordered entry of a student's professional history.
type Experience struct {
	Cargo      string     `json:"cargo"`
	Empresa    string     `json:"empresa"`
	DataInicio *time.Time `json:"dataInicio,omitempty"`
	DataFim    *time.Time `json:"dataFim,omitempty"`
	Atual      bool       `json:"atual"`
	Descricao  string     `json:"descricao,omitempty"`
}

// Skill is one ordered entry of a student's skill list.
type Skill struct {
	Nome      string `json:"nome"`
	Nivel     string `json:"nivel"`
	Categoria string `json:"categoria"`
}
